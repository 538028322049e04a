package workers

import (
	"context"
	"log/slog"
	"sentiment-lab/domain"
	customerrors "sentiment-lab/errors"
	"sentiment-lab/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCommentWorker_Analyzes_Until_Jobs_Are_Closed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockCommentAnalyzer(ctrl)

	analyzer.EXPECT().
		Analyze(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, seq int, c domain.Comment) domain.Prediction {
			return domain.Prediction{Seq: seq, Row: c.Row, Raw: c.Text, Score: 0.9, Label: domain.Positive}
		}).
		Times(2)

	jobs := make(chan Job, 2)
	results := make(chan domain.Prediction, 2)
	jobs <- Job{Seq: 0, Comment: domain.Comment{Row: 1, Text: "great"}}
	jobs <- Job{Seq: 1, Comment: domain.Comment{Row: 2, Text: "super"}}
	close(jobs)

	err := NewCommentWorker(analyzer, jobs, results, slog.Default()).Run(context.Background())
	req.NoError(err)

	req.Len(results, 2)
	first := <-results
	second := <-results
	req.Equal("great", first.Raw)
	req.Equal("super", second.Raw)
}

func TestCommentWorker_Turns_A_Panic_Into_A_Failed_Prediction(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockCommentAnalyzer(ctrl)

	analyzer.EXPECT().
		Analyze(gomock.Any(), 3, gomock.Any()).
		DoAndReturn(func(context.Context, int, domain.Comment) domain.Prediction {
			panic("model exploded")
		})

	label := 4
	jobs := make(chan Job, 1)
	results := make(chan domain.Prediction, 1)
	jobs <- Job{Seq: 3, Comment: domain.Comment{Row: 7, Text: "boom", Label: &label}}

	err := NewCommentWorker(analyzer, jobs, results, slog.Default()).Run(context.Background())
	req.ErrorIs(err, customerrors.ErrWorkerPanic)

	prediction := <-results
	req.True(prediction.Failed())
	req.Equal(3, prediction.Seq)
	req.Equal(7, prediction.Row)
	req.Equal(&label, prediction.Expected)
	req.Contains(prediction.Err, "model exploded")
}

func TestCommentWorker_Stops_On_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockCommentAnalyzer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCommentWorker(analyzer, make(chan Job), make(chan domain.Prediction), slog.Default()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
