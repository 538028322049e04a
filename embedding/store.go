// Package embedding provides read-only word vector lookups.
package embedding

import (
	"encoding/binary"
	"fmt"
	"math"
	"sentiment-lab/errors"
)

// Lookup is the read-only embedding resource queried by exact token.
type Lookup interface {
	Vector(token string) ([]float32, bool)
	Dimension() int
}

// MemoryStore is a map-backed Lookup for small vocabularies and tests.
type MemoryStore struct {
	vectors   map[string][]float32
	dimension int
}

// NewMemoryStore builds a store from vectors that must all share one dimension.
func NewMemoryStore(vectors map[string][]float32) (*MemoryStore, error) {
	dimension := 0
	for _, v := range vectors {
		if dimension == 0 {
			dimension = len(v)
		}
		if len(v) != dimension {
			return nil, dimensionError(dimension, len(v))
		}
	}
	return &MemoryStore{vectors: vectors, dimension: dimension}, nil
}

func (m *MemoryStore) Vector(token string) ([]float32, bool) {
	v, ok := m.vectors[token]
	return v, ok
}

func (m *MemoryStore) Dimension() int {
	return m.dimension
}

// encodeVector packs a vector as little-endian float32 values.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v
}

func dimensionError(expected, got int) error {
	return fmt.Errorf("%w: expected %d, got %d", errors.ErrDimensionMismatch, expected, got)
}
