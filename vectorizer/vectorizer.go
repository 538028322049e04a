// Package vectorizer turns cleaned comments into fixed-size numerical features
// by averaging word embeddings.
package vectorizer

import (
	"sentiment-lab/domain"
	"sentiment-lab/embedding"
	"strings"

	"github.com/samber/lo"
)

// Vectorizer averages the embeddings of the in-vocabulary tokens of a comment.
type Vectorizer struct {
	lookup embedding.Lookup
}

func NewVectorizer(lookup embedding.Lookup) *Vectorizer {
	return &Vectorizer{lookup: lookup}
}

// Dimension is the length of every vector produced.
func (v *Vectorizer) Dimension() int {
	return v.lookup.Dimension()
}

// Vectorize returns the element-wise mean of the embeddings of the tokens of
// cleaned found in the vocabulary. With no known token the reserved
// domain.EmptyCommentToken is used instead; if the vocabulary lacks it too
// the result is a zero vector. The result is never NaN.
func (v *Vectorizer) Vectorize(cleaned string) []float64 {
	return Vectorize(cleaned, v.lookup)
}

// VectorizeAll builds a uniform table: one row per comment, each of Dimension() cells.
func (v *Vectorizer) VectorizeAll(cleaned []string) [][]float64 {
	return lo.Map(cleaned, func(c string, _ int) []float64 { return v.Vectorize(c) })
}

// Vectorize is the stateless form of Vectorizer.Vectorize.
func Vectorize(cleaned string, lookup embedding.Lookup) []float64 {
	dimension := lookup.Dimension()
	sum := make([]float64, dimension)

	vectors := make([][]float32, 0)
	for _, token := range strings.Fields(cleaned) {
		if vector, ok := lookup.Vector(token); ok && len(vector) == dimension {
			vectors = append(vectors, vector)
		}
	}
	if len(vectors) == 0 {
		vector, ok := lookup.Vector(domain.EmptyCommentToken)
		if !ok || len(vector) != dimension {
			return sum
		}
		vectors = append(vectors, vector)
	}

	for _, vector := range vectors {
		for i, f := range vector {
			sum[i] += float64(f)
		}
	}
	n := float64(len(vectors))
	for i := range sum {
		sum[i] /= n
	}
	return sum
}
