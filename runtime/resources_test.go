package runtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sentiment-lab/embedding"
	customerrors "sentiment-lab/errors"
	"sentiment-lab/scoring"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

const vectors = `good 1 0
love 2 0
bad -1 0
<empty_comment> 0 0
`

// splitModel answers 0.9 when the first embedding coordinate is positive.
func splitModel(dimension int) scoring.Model {
	return scoring.Model{
		Scaler: scoring.Scaler{Mean: make([]float64, dimension), Scale: []float64{1, 1, 1}[:dimension]},
		PCA: scoring.PCA{
			Mean:       make([]float64, dimension),
			Components: [][]float64{append([]float64{1}, make([]float64, dimension-1)...)},
		},
		Forest: scoring.Forest{Trees: []scoring.Tree{{Nodes: []scoring.Node{
			{Feature: 0, Threshold: 0, Left: 1, Right: 2},
			{Left: -1, Right: -1, Value: 0.1},
			{Left: -1, Right: -1, Value: 0.9},
		}}}},
	}
}

func writeForestFiles(t *testing.T, dimension int) (string, string) {
	t.Helper()
	dir := t.TempDir()

	storePath := filepath.Join(dir, "embeddings")
	db, err := badger.Open(badger.DefaultOptions(storePath).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	_, err = embedding.Import(context.Background(), db, strings.NewReader(vectors), slog.Default())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	data, err := json.Marshal(splitModel(dimension))
	require.NoError(t, err)
	modelPath := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, data, 0o600))
	return storePath, modelPath
}

func TestResources_Forest_Scorer(t *testing.T) {
	req := require.New(t)
	storePath, modelPath := writeForestFiles(t, 2)

	resources := NewResources(ResourcesConfig{
		ScorerKind:     scoring.KindForest,
		ModelPath:      modelPath,
		EmbeddingsPath: storePath,
	}, slog.Default())
	defer resources.Close()

	engine := NewEngine(slog.Default(), resources, nil, EngineConfig{NumberOfWorkers: 2, Threshold: 0.5})
	predictions, report, err := engine.Run(context.Background(), comments("So good!", "I LOVE it", "bad bad bad", "zzz"))
	req.NoError(err)

	req.InDelta(0.9, predictions[0].Score, 1e-9)
	req.InDelta(0.9, predictions[1].Score, 1e-9)
	req.InDelta(0.1, predictions[2].Score, 1e-9)
	// Out of vocabulary: the sentinel vector sits on the threshold and goes left.
	req.InDelta(0.1, predictions[3].Score, 1e-9)
	req.Equal(2, report.Positive)
	req.Equal(2, report.Negative)

	// Loaded once, then reused.
	first, err := resources.Scorer(context.Background())
	req.NoError(err)
	second, err := resources.Scorer(context.Background())
	req.NoError(err)
	req.Same(first, second)
}

func TestResources_Forest_Dimension_Mismatch(t *testing.T) {
	storePath, modelPath := writeForestFiles(t, 3)

	resources := NewResources(ResourcesConfig{
		ScorerKind:     scoring.KindForest,
		ModelPath:      modelPath,
		EmbeddingsPath: storePath,
	}, slog.Default())
	defer resources.Close()

	_, err := resources.Scorer(context.Background())
	require.ErrorIs(t, err, customerrors.ErrDimensionMismatch)
}

func TestResources_Cleaner_With_Dictionaries(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	abbreviations := filepath.Join(dir, "abbreviations.csv")
	req.NoError(os.WriteFile(abbreviations, []byte("gr8,great\n"), 0o600))

	resources := NewResources(ResourcesConfig{AbbreviationsPath: abbreviations}, slog.Default())
	cleaner, err := resources.Cleaner()
	req.NoError(err)
	req.Equal("great", cleaner.Clean("gr8"))

	again, err := resources.Cleaner()
	req.NoError(err)
	req.Same(cleaner, again)
}
