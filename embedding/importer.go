package embedding

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	customerrors "sentiment-lab/errors"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const maxLineSize = 4 << 20

// ImportStats summarizes an import run.
type ImportStats struct {
	Imported  int
	Skipped   int
	Dimension int
}

// Import loads a word2vec or GloVe text file into Badger. A leading
// "<count> <dimension>" header is optional. Lines that do not parse, or whose
// dimension differs from the first vector, are skipped. Importing into a
// store that already has another dimension fails.
func Import(ctx context.Context, db *badger.DB, r io.Reader, log *slog.Logger) (ImportStats, error) {
	stats := ImportStats{}
	existing, err := readDimension(db)
	if err != nil && !errors.Is(err, customerrors.ErrUnknownDimension) {
		return stats, err
	}
	stats.Dimension = existing

	wb := db.NewWriteBatch()
	defer wb.Cancel()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			log.Debug("Importing embeddings", "lines", lineNumber, "imported", stats.Imported)
		}

		fields := strings.Fields(scanner.Text())
		if lineNumber == 1 && isHeader(fields) {
			dimension, _ := strconv.Atoi(fields[1])
			if stats.Dimension != 0 && stats.Dimension != dimension {
				return stats, dimensionError(stats.Dimension, dimension)
			}
			stats.Dimension = dimension
			continue
		}

		token, vector, ok := parseLine(fields)
		if !ok {
			stats.Skipped++
			continue
		}
		if stats.Dimension == 0 {
			stats.Dimension = len(vector)
		}
		if len(vector) != stats.Dimension {
			if existing != 0 && stats.Imported == 0 {
				return stats, dimensionError(existing, len(vector))
			}
			stats.Skipped++
			continue
		}
		if err := wb.Set([]byte(vectorPrefix+token), encodeVector(vector)); err != nil {
			return stats, fmt.Errorf("write %q: %w", token, err)
		}
		stats.Imported++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read embeddings: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return stats, fmt.Errorf("flush embeddings: %w", err)
	}
	if stats.Dimension == 0 {
		return stats, customerrors.ErrUnknownDimension
	}

	err = db.Update(func(txn *badger.Txn) error {
		return writeDimension(txn, stats.Dimension)
	})
	return stats, err
}

func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	_, errCount := strconv.Atoi(fields[0])
	_, errDim := strconv.Atoi(fields[1])
	return errCount == nil && errDim == nil
}

func parseLine(fields []string) (string, []float32, bool) {
	if len(fields) < 2 {
		return "", nil, false
	}
	vector := make([]float32, len(fields)-1)
	for i, field := range fields[1:] {
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return "", nil, false
		}
		vector[i] = float32(f)
	}
	return fields[0], vector, true
}
