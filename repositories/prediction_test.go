package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sentiment-lab/domain"
	"sentiment-lab/domain/search"
	customerrors "sentiment-lab/errors"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, limit *int) PredictionRepository {
	t.Helper()
	dir := t.TempDir()
	db, err := badger.Open(badger.DefaultOptions(filepath.Join(dir, "badger")).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(filepath.Join(dir, "bluge")))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = writer.Close()
		_ = db.Close()
	})
	return NewPredictionRepository(db, writer, logs.GetLoggerFromLevel(slog.LevelDebug), limit)
}

func newPrediction(runID uuid.UUID, seq int, raw, cleaned string, score float64) domain.Prediction {
	return domain.Prediction{
		ID:      uuid.New(),
		RunID:   runID,
		Seq:     seq,
		Row:     seq + 1,
		Raw:     raw,
		Cleaned: cleaned,
		Lang:    "en",
		Score:   score,
		Label:   domain.Classify(score, 0.5),
		At:      time.Now().UTC(),
	}
}

func TestPredictionRepository_Store_And_Get(t *testing.T) {
	req := require.New(t)
	repository := setup(t, nil)
	runID := uuid.New()

	expected := newPrediction(runID, 0, "I LOVE it!!!", "love", 0.91)
	expected.Expected = lo.ToPtr(4)
	failed := newPrediction(runID, 1, "???", domain.InsignificantComment, 0)
	failed.Label = ""
	failed.Err = "specialist unavailable"

	req.NoError(repository.StorePredictions([]domain.Prediction{expected, failed}))

	fetched, err := repository.GetPrediction(runID, 0)
	req.NoError(err)
	req.Equal(expected, fetched)

	fetched, err = repository.GetPrediction(runID, 1)
	req.NoError(err)
	req.True(fetched.Failed())
	req.Nil(fetched.Expected)

	_, err = repository.GetPrediction(runID, 2)
	req.ErrorIs(err, customerrors.ErrPredictionNotFound)
}

func TestPredictionRepository_GetPredictions_Paginates_In_Input_Order(t *testing.T) {
	req := require.New(t)
	repository := setup(t, lo.ToPtr(2))
	runID := uuid.New()
	other := uuid.New()

	var predictions []domain.Prediction
	for seq := 0; seq < 5; seq++ {
		predictions = append(predictions, newPrediction(runID, seq, fmt.Sprintf("comment %d", seq), "comment", 0.6))
	}
	predictions = append(predictions, newPrediction(other, 0, "elsewhere", "elsewhere", 0.1))
	req.NoError(repository.StorePredictions(predictions))

	var seqs []int
	var cursor *string
	for page := 0; page < 10; page++ {
		batch, next, err := repository.GetPredictions(runID, cursor)
		req.NoError(err)
		if len(batch) == 0 {
			req.Nil(next)
			break
		}
		req.LessOrEqual(len(batch), 2)
		seqs = append(seqs, lo.Map(batch, func(p domain.Prediction, _ int) int { return p.Seq })...)
		cursor = next
	}
	req.Equal([]int{0, 1, 2, 3, 4}, seqs)
}

func TestPredictionRepository_Runs(t *testing.T) {
	req := require.New(t)
	repository := setup(t, nil)
	at := time.Now().UTC()

	older := domain.Run{ID: uuid.New(), Source: "a.csv", Scorer: "forest", Started: at.Add(-time.Hour), Finished: at.Add(-time.Hour)}
	newer := domain.Run{
		ID:       uuid.New(),
		Source:   "b.csv",
		Scorer:   "transformer",
		Skipped:  3,
		Started:  at,
		Finished: at.Add(time.Second),
		Report:   domain.Aggregate([]float64{0.1, 0.9, 0.7}, 0.5),
	}
	req.NoError(repository.StoreRun(older))
	req.NoError(repository.StoreRun(newer))

	runs, err := repository.GetRuns()
	req.NoError(err)
	req.Equal([]domain.Run{newer, older}, runs)
}

func TestPredictionRepository_Search(t *testing.T) {
	repository := setup(t, nil)
	runID := uuid.New()
	other := uuid.New()

	require.NoError(t, repository.StorePredictions([]domain.Prediction{
		newPrediction(runID, 0, "The refund never came", "refund never come", 0.1),
		newPrediction(runID, 1, "Refund was quick, thanks", "refund quick thanks", 0.9),
		newPrediction(runID, 2, "Great service", "great service", 0.8),
		newPrediction(other, 0, "refund refused", "refund refuse", 0.2),
	}))

	tests := []struct {
		description string
		input       string
		expected    []int
		total       uint64
	}{
		{"Should match every run", "refund", nil, 3},
		{"Should restrict to a run", "refund --run " + runID.String(), []int{0, 1}, 2},
		{"Should filter on the label", "refund --label positive --run " + runID.String(), []int{1}, 1},
		{"Should filter on the score", "--min 0.75 --run " + runID.String(), []int{1, 2}, 2},
		{"Should match the raw comment", "thanks --run " + runID.String(), []int{1}, 1},
		{"Should find nothing", "shipping", []int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			results, total, err := repository.Search(context.Background(), *search.NewSearchQuery(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.total, total)
			require.Len(t, results, int(tt.total))
			if tt.expected != nil {
				seqs := lo.Map(results, func(p domain.Prediction, _ int) int { return p.Seq })
				require.ElementsMatch(t, tt.expected, seqs)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	req := require.New(t)
	runID := uuid.New()

	p := newPrediction(runID, 0, "So good", "good", 0.9)
	value, err := marshalPrediction(p)
	req.NoError(err)
	kind, detail, scores, err := Describe(predictionKey(runID, 0), value)
	req.NoError(err)
	req.Equal("PREDICTION", kind)
	req.Equal("So good", detail)
	req.Equal("positive:0.90", scores)

	run := domain.Run{ID: runID, Source: "a.csv", Scorer: "forest", Report: domain.Aggregate([]float64{0.9, 0.1}, 0.5)}
	value, err = marshalRun(run)
	req.NoError(err)
	kind, detail, _, err = Describe(runKey(runID), value)
	req.NoError(err)
	req.Equal("RUN", kind)
	req.Equal("a.csv (forest, 2 comments)", detail)

	kind, _, _, err = Describe("other", []byte("x"))
	req.NoError(err)
	req.Equal("UNKNOWN", kind)
}
