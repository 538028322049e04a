//go:generate go run go.uber.org/mock/mockgen -source=prediction.go -destination=../mocks/mock_prediction_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sentiment-lab/domain"
	"sentiment-lab/domain/search"
	"sentiment-lab/errors"
	"slices"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	predictionPrefix = "prediction:"
	runPrefix        = "run:"

	fieldKey     = "key"
	fieldRun     = "run"
	fieldLabel   = "label"
	fieldScore   = "score"
	fieldCleaned = "cleaned"
	fieldRaw     = "raw"
)

type IPredictionRepository interface {
	StoreRun(run domain.Run) error
	GetRuns() ([]domain.Run, error)
	StorePredictions(predictions []domain.Prediction) error
	GetPrediction(runID uuid.UUID, seq int) (domain.Prediction, error)
	GetPredictions(runID uuid.UUID, cursor *string) ([]domain.Prediction, *string, error)
	Search(ctx context.Context, query search.Query) ([]domain.Prediction, uint64, error)
}

// PredictionRepository keeps predictions in BadgerDB and indexes their text
// in Bluge. Badger is the source of truth; the index only holds keys.
type PredictionRepository struct {
	db               *badger.DB
	writer           *bluge.Writer
	log              *slog.Logger
	limitPredictions *int
}

func NewPredictionRepository(db *badger.DB, writer *bluge.Writer, log *slog.Logger, limitPredictions *int) PredictionRepository {
	return PredictionRepository{db: db, writer: writer, log: log, limitPredictions: limitPredictions}
}

// predictionKey is "prediction:{run}:{seq_padded}" so a prefix scan returns
// a run in input order.
func predictionKey(runID uuid.UUID, seq int) string {
	return fmt.Sprintf("%s%s:%010d", predictionPrefix, runID, seq)
}

func runKey(runID uuid.UUID) string {
	return runPrefix + runID.String()
}

func (r PredictionRepository) StoreRun(run domain.Run) error {
	bytes, err := marshalRun(run)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKey(run.ID)), bytes)
	})
}

// GetRuns lists every stored run, most recent first.
func (r PredictionRepository) GetRuns() ([]domain.Run, error) {
	var runs []domain.Run
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(runPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				run, err := unmarshalRun(value)
				if err != nil {
					return err
				}
				runs = append(runs, run)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(runs, func(a, b domain.Run) int { return b.Started.Compare(a.Started) })
	return runs, nil
}

// StorePredictions writes the values in one Badger batch, then indexes them
// in one Bluge batch.
func (r PredictionRepository) StorePredictions(predictions []domain.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}
	wb := r.db.NewWriteBatch()
	defer wb.Cancel()

	batch := bluge.NewBatch()
	for _, p := range predictions {
		key := predictionKey(p.RunID, p.Seq)
		bytes, err := marshalPrediction(p)
		if err != nil {
			return err
		}
		if err := wb.Set([]byte(key), bytes); err != nil {
			return err
		}
		doc := toDocument(key, p)
		batch.Update(doc.ID(), doc)
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("store predictions: %w", err)
	}
	if err := r.writer.Batch(batch); err != nil {
		return fmt.Errorf("index predictions: %w", err)
	}
	r.log.Debug("Predictions stored", "count", len(predictions))
	return nil
}

func toDocument(key string, p domain.Prediction) *bluge.Document {
	doc := bluge.NewDocument(p.ID.String())
	doc.AddField(bluge.NewKeywordField(fieldKey, key).StoreValue())
	doc.AddField(bluge.NewKeywordField(fieldRun, p.RunID.String()))
	if p.Label != "" {
		doc.AddField(bluge.NewKeywordField(fieldLabel, string(p.Label)))
	}
	doc.AddField(bluge.NewNumericField(fieldScore, p.Score))
	doc.AddField(bluge.NewTextField(fieldCleaned, p.Cleaned))
	doc.AddField(bluge.NewTextField(fieldRaw, p.Raw))
	return doc
}

func (r PredictionRepository) GetPrediction(runID uuid.UUID, seq int) (domain.Prediction, error) {
	var prediction domain.Prediction
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(predictionKey(runID, seq)))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: run %s seq %d", errors.ErrPredictionNotFound, runID, seq)
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			prediction, err = unmarshalPrediction(value)
			return err
		})
	})
	return prediction, err
}

// GetPredictions pages through a run in input order. The returned cursor is
// the sequence part of the last key read; pass it back to continue.
func (r PredictionRepository) GetPredictions(runID uuid.UUID, cursor *string) ([]domain.Prediction, *string, error) {
	var values [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("%s%s:", predictionPrefix, runID)
		prefix := []byte(prefixStr)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}
		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitPredictions != nil && len(values) == *r.limitPredictions {
				r.log.Debug(fmt.Sprintf("Maximum of %d predictions reached", *r.limitPredictions))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	predictions := make([]domain.Prediction, 0, len(values))
	for _, value := range values {
		p, err := unmarshalPrediction(value)
		if err != nil {
			return nil, nil, err
		}
		predictions = append(predictions, p)
	}
	if len(predictions) == 0 {
		return predictions, nil, nil
	}
	return predictions, &lastKey, nil
}

// Search runs a full-text match over cleaned and raw comments, restricted by
// the query filters, and loads the hits from Badger.
func (r PredictionRepository) Search(ctx context.Context, query search.Query) ([]domain.Prediction, uint64, error) {
	reader, err := r.writer.Reader()
	if err != nil {
		return nil, 0, fmt.Errorf("open index reader: %w", err)
	}
	defer reader.Close()

	request := bluge.NewTopNSearch(lo.Ternary(query.Limit > 0, query.Limit, 10), buildQuery(query)).
		WithStandardAggregations()
	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, fmt.Errorf("search predictions: %w", err)
	}

	var keys []string
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == fieldKey {
				keys = append(keys, string(value))
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read search hits: %w", err)
	}
	total := matches.Aggregations().Count()

	predictions := make([]domain.Prediction, 0, len(keys))
	err = r.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				r.log.Debug("Indexed prediction missing from store", "key", key)
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(value []byte) error {
				p, err := unmarshalPrediction(value)
				if err != nil {
					return err
				}
				predictions = append(predictions, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return predictions, total, nil
}

func buildQuery(query search.Query) bluge.Query {
	q := bluge.NewBooleanQuery()
	if query.Terms == "" {
		q.AddMust(bluge.NewMatchAllQuery())
	} else {
		text := bluge.NewBooleanQuery().
			AddShould(bluge.NewMatchQuery(query.Terms).SetField(fieldCleaned)).
			AddShould(bluge.NewMatchQuery(query.Terms).SetField(fieldRaw)).
			SetMinShould(1)
		q.AddMust(text)
	}
	if query.RunID != "" {
		q.AddMust(bluge.NewTermQuery(query.RunID).SetField(fieldRun))
	}
	if query.Label != "" {
		q.AddMust(bluge.NewTermQuery(query.Label).SetField(fieldLabel))
	}
	if query.MinScore != nil || query.MaxScore != nil {
		minScore := lo.FromPtrOr(query.MinScore, 0)
		maxScore := lo.FromPtrOr(query.MaxScore, 1)
		q.AddMust(bluge.NewNumericRangeInclusiveQuery(minScore, maxScore, true, true).SetField(fieldScore))
	}
	return q
}
