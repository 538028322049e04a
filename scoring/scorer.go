//go:generate go run go.uber.org/mock/mockgen -source=scorer.go -destination=../mocks/mock_scorer.go -package=mocks
package scoring

import (
	"context"
	"fmt"
	"math"
	"sentiment-lab/errors"
)

// Kind selects the scoring strategy.
type Kind string

const (
	// KindForest is the classical path: averaged embeddings, standardization, PCA, random forest.
	KindForest Kind = "forest"
	// KindTransformer is the transformer path, served by a scoring specialist over gRPC.
	KindTransformer Kind = "transformer"
)

// NeedsVector reports whether the strategy consumes comment vectors instead of cleaned text.
func (k Kind) NeedsVector() bool {
	return k == KindForest
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindForest, KindTransformer:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownScorer, s)
	}
}

// Input carries what a strategy may consume: the cleaned comment, its vector, or both.
type Input struct {
	Text   string
	Vector []float64
}

// Scorer returns the probability in [0,1] that a comment is positive.
type Scorer interface {
	Score(ctx context.Context, input Input) (float64, error)
}

// Clamp bounds a score to [0,1]; NaN becomes 0.
func Clamp(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
