package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sentiment-lab/contract"
	"sentiment-lab/domain"
	"sentiment-lab/errors"
	"time"
)

var _ contract.Worker = (*CommentWorker)(nil)

// Job is one comment and its position in the input.
type Job struct {
	Seq     int
	Comment domain.Comment
}

// CommentWorker analyzes jobs until the job channel is closed. A panic while
// analyzing is turned into a failed prediction for that job, then re-raised
// as an error so the supervisor restarts the worker.
type CommentWorker struct {
	analyzer contract.CommentAnalyzer
	jobs     <-chan Job
	results  chan<- domain.Prediction
	log      *slog.Logger
}

func NewCommentWorker(
	analyzer contract.CommentAnalyzer,
	jobs <-chan Job,
	results chan<- domain.Prediction,
	log *slog.Logger) *CommentWorker {
	return &CommentWorker{
		analyzer: analyzer,
		jobs:     jobs,
		results:  results,
		log:      log,
	}
}

func (w *CommentWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				w.log.Debug("Job channel is closed")
				return nil
			}
			prediction, panicked := w.analyze(ctx, job)
			if prediction.Failed() {
				w.log.Warn("Comment could not be scored", "row", job.Comment.Row, "error", prediction.Err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case w.results <- prediction:
			}
			if panicked != nil {
				return panicked
			}
		}
	}
}

func (w *CommentWorker) analyze(ctx context.Context, job Job) (prediction domain.Prediction, panicked error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
			prediction = domain.Prediction{
				Seq:      job.Seq,
				Row:      job.Comment.Row,
				Raw:      job.Comment.Text,
				Expected: job.Comment.Label,
				Err:      panicked.Error(),
				At:       time.Now().UTC(),
			}
		}
	}()
	return w.analyzer.Analyze(ctx, job.Seq, job.Comment), nil
}
