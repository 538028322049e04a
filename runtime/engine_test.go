package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sentiment-lab/domain"
	customerrors "sentiment-lab/errors"
	"sentiment-lab/mocks"
	"sentiment-lab/normalizer"
	"sentiment-lab/scoring"
	"sentiment-lab/textproc"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCleaner(t *testing.T) *textproc.Cleaner {
	t.Helper()
	n, err := normalizer.New()
	require.NoError(t, err)
	return textproc.NewCleaner(n, textproc.NewLemmatizer(), textproc.DefaultStopWords())
}

// keywordScore is positive when the cleaned comment mentions "good" or "love".
func keywordScore(_ context.Context, input scoring.Input) (float64, error) {
	if strings.Contains(input.Text, "good") || strings.Contains(input.Text, "love") {
		return 0.9, nil
	}
	return 0.1, nil
}

func comments(texts ...string) []domain.Comment {
	return lo.Map(texts, func(text string, i int) domain.Comment { return domain.Comment{Row: i + 1, Text: text} })
}

func TestEngine_Run_Keeps_Input_Order(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(keywordScore).AnyTimes()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	resources := NewResources(ResourcesConfig{}, log, WithCleaner(newCleaner(t)), WithScorer(scorer))
	engine := NewEngine(log, resources, nil, EngineConfig{NumberOfWorkers: 4, Threshold: 0.5})

	var texts []string
	for i := range 50 {
		texts = append(texts, lo.Ternary(i%2 == 0, fmt.Sprintf("Sooo good %d!!!", i), "This is terrible"))
	}

	predictions, report, err := engine.Run(context.Background(), comments(texts...))
	req.NoError(err)
	req.Len(predictions, 50)
	for i, p := range predictions {
		req.Equal(i, p.Seq)
		req.Equal(i+1, p.Row)
		req.Equal(texts[i], p.Raw)
		req.Equal(engine.RunID(), p.RunID)
		req.Equal(lo.Ternary(i%2 == 0, domain.Positive, domain.Negative), p.Label)
	}
	req.Equal(50, report.Total)
	req.Equal(25, report.Positive)
	req.Equal(25, report.Negative)
	req.InDelta(0.5, report.PositiveRatio, 1e-9)
}

func TestEngine_Run_Counts_Failed_Comments(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input scoring.Input) (float64, error) {
			if input.Text == domain.InsignificantComment {
				return 0, stderrors.New("nothing to score")
			}
			return keywordScore(ctx, input)
		}).
		AnyTimes()

	sink := mocks.NewMockPredictionSink(ctrl)
	var consumed []domain.Prediction
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p domain.Prediction) error {
		consumed = append(consumed, p)
		return nil
	}).Times(3)
	sink.EXPECT().Flush(gomock.Any()).Return(nil).Times(1)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	resources := NewResources(ResourcesConfig{}, log, WithCleaner(newCleaner(t)), WithScorer(scorer))
	engine := NewEngine(log, resources, sink, EngineConfig{NumberOfWorkers: 2, Threshold: 0.5})

	labels := []int{4, 0, 0}
	input := comments("I love it", "It is what it is, isn't it?", "meh, bad")
	for i := range input {
		input[i].Label = &labels[i]
	}

	predictions, report, err := engine.Run(context.Background(), input)
	req.NoError(err)
	req.Len(consumed, 3)

	req.False(predictions[0].Failed())
	req.True(predictions[1].Failed())
	req.Equal(domain.InsignificantComment, predictions[1].Cleaned)
	req.False(predictions[2].Failed())

	req.Equal(2, report.Total)
	req.Equal(1, report.Failed)
	req.Equal(2, report.Labelled)
	req.Equal(2, report.Correct)
}

func TestEngine_Run_Empty_Input(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	scorer := mocks.NewMockScorer(ctrl)

	resources := NewResources(ResourcesConfig{}, slog.Default(), WithCleaner(newCleaner(t)), WithScorer(scorer))
	predictions, report, err := NewEngine(slog.Default(), resources, nil, EngineConfig{}).Run(context.Background(), nil)

	req.NoError(err)
	req.Empty(predictions)
	req.Equal(0, report.Total)
	req.Zero(report.PositiveRatio)
}

func TestEngine_Run_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(keywordScore).AnyTimes()

	resources := NewResources(ResourcesConfig{}, slog.Default(), WithCleaner(newCleaner(t)), WithScorer(scorer))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewEngine(slog.Default(), resources, nil, EngineConfig{NumberOfWorkers: 2}).
		Run(ctx, comments("good", "bad", "ugly"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Run_Unknown_Scorer(t *testing.T) {
	resources := NewResources(ResourcesConfig{ScorerKind: "crystal-ball"}, slog.Default(), WithCleaner(newCleaner(t)))

	_, _, err := NewEngine(slog.Default(), resources, nil, EngineConfig{}).Run(context.Background(), comments("good"))
	require.ErrorIs(t, err, customerrors.ErrUnknownScorer)
}
