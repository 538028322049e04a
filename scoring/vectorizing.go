package scoring

import (
	"context"
	"sentiment-lab/vectorizer"
)

// VectorizingScorer fills in the vector from the cleaned text before
// delegating, so vector-based scorers can be fed text only.
type VectorizingScorer struct {
	vectorizer *vectorizer.Vectorizer
	next       Scorer
}

func NewVectorizingScorer(v *vectorizer.Vectorizer, next Scorer) *VectorizingScorer {
	return &VectorizingScorer{vectorizer: v, next: next}
}

func (s *VectorizingScorer) Score(ctx context.Context, input Input) (float64, error) {
	if len(input.Vector) == 0 {
		input.Vector = s.vectorizer.Vectorize(input.Text)
	}
	return s.next.Score(ctx, input)
}
