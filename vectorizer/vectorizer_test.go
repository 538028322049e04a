package vectorizer

import (
	"math"
	"sentiment-lab/domain"
	"sentiment-lab/embedding"
	"testing"

	"github.com/stretchr/testify/require"
)

func newLookup(t *testing.T, withSentinel bool) embedding.Lookup {
	t.Helper()
	vectors := map[string][]float32{
		"good":  {1, 0, 2},
		"great": {3, 2, 0},
		"bad":   {-1, -1, -1},
	}
	if withSentinel {
		vectors[domain.EmptyCommentToken] = []float32{0.25, 0.5, 0.75}
	}
	store, err := embedding.NewMemoryStore(vectors)
	require.NoError(t, err)
	return store
}

func TestVectorize(t *testing.T) {
	lookup := newLookup(t, true)

	tests := []struct {
		description string
		cleaned     string
		expected    []float64
	}{
		{"Should return the single token vector", "good", []float64{1, 0, 2}},
		{"Should average known tokens", "good great", []float64{2, 1, 1}},
		{"Should ignore unknown tokens", "good unknown great", []float64{2, 1, 1}},
		{"Should count repeated tokens twice", "good good bad", []float64{1.0 / 3, -1.0 / 3, 1}},
		{"Should use the sentinel when nothing is known", "nothing known", []float64{0.25, 0.5, 0.75}},
		{"Should use the sentinel for the insignificant comment", domain.InsignificantComment, []float64{0.25, 0.5, 0.75}},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := Vectorize(tt.cleaned, lookup)
			require.Len(t, got, len(tt.expected))
			require.InDeltaSlice(t, tt.expected, got, 1e-9)
		})
	}
}

func TestVectorize_Without_Sentinel_Returns_Zero_Vector(t *testing.T) {
	req := require.New(t)

	got := Vectorize("nothing known", newLookup(t, false))

	req.Equal([]float64{0, 0, 0}, got)
	for _, f := range got {
		req.False(math.IsNaN(f))
	}
}

func TestVectorizer_VectorizeAll_Constant_Dimension(t *testing.T) {
	req := require.New(t)
	v := NewVectorizer(newLookup(t, true))

	table := v.VectorizeAll([]string{"good", "", "bad great unknown", domain.InsignificantComment})

	req.Len(table, 4)
	for _, row := range table {
		req.Len(row, v.Dimension())
	}
}
