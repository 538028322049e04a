package embedding

import (
	"context"
	"log/slog"
	customerrors "sentiment-lab/errors"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const word2vecSample = `4 3
good 0.5 1.0 -0.5
bad -0.5 -1.0 0.5
broken line here
<empty_comment> 0 0 0
short 1.0
`

func openDB(t *testing.T, path string) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	return db
}

func TestImport_And_Read_Only_Store(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	path := t.TempDir()

	db := openDB(t, path)
	stats, err := Import(ctx, db, strings.NewReader(word2vecSample), log)
	req.NoError(err)
	req.NoError(db.Close())

	req.Equal(3, stats.Imported)
	req.Equal(2, stats.Skipped)
	req.Equal(3, stats.Dimension)

	store, err := OpenStore(path, log)
	req.NoError(err)
	defer store.Close()

	req.Equal(3, store.Dimension())
	vector, ok := store.Vector("good")
	req.True(ok)
	req.Equal([]float32{0.5, 1.0, -0.5}, vector)

	_, ok = store.Vector("missing")
	req.False(ok)
	_, ok = store.Vector("short")
	req.False(ok)

	count, err := store.Count()
	req.NoError(err)
	req.Equal(3, count)
}

func TestImport_Without_Header(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()

	stats, err := Import(context.Background(), db, strings.NewReader("the 1 2\ncat 3 4\n"), slog.Default())
	req.NoError(err)
	req.Equal(2, stats.Imported)
	req.Equal(2, stats.Dimension)

	store, err := NewStore(db, slog.Default())
	req.NoError(err)
	vector, ok := store.Vector("cat")
	req.True(ok)
	req.Equal([]float32{3, 4}, vector)
}

func TestImport_Rejects_Another_Dimension(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()

	_, err := Import(context.Background(), db, strings.NewReader("the 1 2\n"), slog.Default())
	req.NoError(err)

	_, err = Import(context.Background(), db, strings.NewReader("cat 1 2 3\n"), slog.Default())
	req.ErrorIs(err, customerrors.ErrDimensionMismatch)
}

func TestImport_Empty_Input(t *testing.T) {
	db := openDB(t, t.TempDir())
	defer db.Close()

	_, err := Import(context.Background(), db, strings.NewReader(""), slog.Default())
	require.ErrorIs(t, err, customerrors.ErrUnknownDimension)
}

func TestNewStore_Without_Dimension(t *testing.T) {
	db := openDB(t, t.TempDir())
	defer db.Close()

	_, err := NewStore(db, slog.Default())
	require.ErrorIs(t, err, customerrors.ErrUnknownDimension)
}

func TestNewMemoryStore(t *testing.T) {
	req := require.New(t)

	store, err := NewMemoryStore(map[string][]float32{"a": {1, 2}, "b": {3, 4}})
	req.NoError(err)
	req.Equal(2, store.Dimension())

	_, err = NewMemoryStore(map[string][]float32{"a": {1, 2}, "b": {3}})
	req.ErrorIs(err, customerrors.ErrDimensionMismatch)
}

func TestVectorCodec(t *testing.T) {
	vector := []float32{0, -1.5, 3.25, 1e-7}
	require.Equal(t, vector, decodeVector(encodeVector(vector)))
}
