//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"sentiment-lab/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself: panics are recovered by the supervisor.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName returns the type name of the worker, for logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// PredictionSink receives every prediction of a run, failed ones included.
type PredictionSink interface {
	Consume(ctx context.Context, p domain.Prediction) error
	Flush(ctx context.Context) error
}

// CommentAnalyzer turns one comment into a prediction. It never fails:
// scoring errors are carried by the prediction itself.
type CommentAnalyzer interface {
	Analyze(ctx context.Context, seq int, c domain.Comment) domain.Prediction
}
