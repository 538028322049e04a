package embedding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	customerrors "sentiment-lab/errors"

	"github.com/dgraph-io/badger/v4"
)

const (
	vectorPrefix = "vec:"
	dimensionKey = "meta:dimension"
)

// Store is a Badger-backed Lookup. Opened read-only, Badger memory-maps its
// tables so lookups do not load the whole vocabulary in memory.
type Store struct {
	db        *badger.DB
	log       *slog.Logger
	dimension int
}

// OpenStore opens the embedding database in read-only mode.
func OpenStore(path string, log *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open embedding store: %w", err)
	}
	store, err := NewStore(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an already opened database. The dimension must have been recorded by Import.
func NewStore(db *badger.DB, log *slog.Logger) (*Store, error) {
	dimension, err := readDimension(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, log: log, dimension: dimension}, nil
}

// Vector returns the embedding of token. Read errors are logged and reported as a miss.
func (s *Store) Vector(token string) ([]float32, bool) {
	var vector []float32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(vectorPrefix + token))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vector = decodeVector(val)
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			s.log.Warn("Embedding lookup failed", "token", token, "error", err)
		}
		return nil, false
	}
	return vector, true
}

func (s *Store) Dimension() int {
	return s.dimension
}

// Count returns the number of vectors in the store.
func (s *Store) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(vectorPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func readDimension(db *badger.DB) (int, error) {
	var dimension int
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dimensionKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				return customerrors.ErrUnknownDimension
			}
			dimension = int(binary.LittleEndian.Uint32(val))
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, customerrors.ErrUnknownDimension
	}
	return dimension, err
}

func writeDimension(txn *badger.Txn, dimension int) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(dimension))
	return txn.Set([]byte(dimensionKey), buf)
}
