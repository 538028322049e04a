// Package runtime wires the pipeline stages together: it owns the shared
// resources and fans comments out to supervised workers.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sentiment-lab/contract"
	"sentiment-lab/domain"
	"sentiment-lab/runtime/workers"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type EngineConfig struct {
	RunID           uuid.UUID // generated when zero
	NumberOfWorkers int
	Threshold       float64
	MonitorInterval time.Duration // 0 disables process monitoring
}

// Engine classifies a batch of comments. Workers only share the read-only
// resources; each comment is handled by exactly one worker.
type Engine struct {
	log       *slog.Logger
	resources *Resources
	sink      contract.PredictionSink
	cfg       EngineConfig
}

// NewEngine builds an engine for one run. sink may be nil.
func NewEngine(log *slog.Logger, resources *Resources, sink contract.PredictionSink, cfg EngineConfig) *Engine {
	if cfg.RunID == uuid.Nil {
		cfg.RunID = uuid.New()
	}
	cfg.NumberOfWorkers = max(cfg.NumberOfWorkers, 1)
	return &Engine{log: log.With("run", cfg.RunID), resources: resources, sink: sink, cfg: cfg}
}

func (e *Engine) RunID() uuid.UUID {
	return e.cfg.RunID
}

// Run returns one prediction per comment, in input order, and their report.
// A comment that cannot be scored is reported as failed; only resource
// loading errors and cancellation abort the run.
func (e *Engine) Run(ctx context.Context, comments []domain.Comment) ([]domain.Prediction, domain.Report, error) {
	cleaner, err := e.resources.Cleaner()
	if err != nil {
		return nil, domain.Report{}, fmt.Errorf("load cleaner: %w", err)
	}
	scorer, err := e.resources.Scorer(ctx)
	if err != nil {
		return nil, domain.Report{}, fmt.Errorf("load scorer: %w", err)
	}
	analyzer := NewAnalyzer(e.cfg.RunID, cleaner, scorer, e.cfg.Threshold)

	jobs := make(chan workers.Job, e.cfg.NumberOfWorkers)
	results := make(chan domain.Prediction, e.cfg.NumberOfWorkers)

	sup := workers.NewSupervisor(e.log)
	for range e.cfg.NumberOfWorkers {
		sup.Add(workers.NewCommentWorker(analyzer, jobs, results, e.log))
	}
	if e.cfg.MonitorInterval > 0 {
		sup.Add(workers.NewResourceMonitorWorker(e.log, e.cfg.MonitorInterval, e.resources.Pids()))
	}

	g, gctx := errgroup.WithContext(ctx)
	supervised := make(chan struct{})
	go func() {
		defer close(supervised)
		sup.Run(gctx)
	}()

	g.Go(func() error {
		defer close(jobs)
		for seq, c := range comments {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- workers.Job{Seq: seq, Comment: c}:
			}
		}
		return nil
	})

	predictions := make([]domain.Prediction, len(comments))
	g.Go(func() error {
		for range comments {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case p := <-results:
				p = e.complete(p)
				predictions[p.Seq] = p
				if e.sink != nil {
					if err := e.sink.Consume(gctx, p); err != nil {
						e.log.Error("Prediction sink failed", "seq", p.Seq, "error", err)
					}
				}
			}
		}
		return nil
	})

	// Wait cancels gctx, which also stops the process monitor.
	err = g.Wait()
	<-supervised
	if err != nil {
		return nil, domain.Report{}, err
	}

	if e.sink != nil {
		if err := e.sink.Flush(ctx); err != nil {
			return nil, domain.Report{}, fmt.Errorf("flush predictions: %w", err)
		}
	}

	report := domain.AggregatePredictions(predictions, e.cfg.Threshold)
	e.log.Info("Run completed",
		"comments", report.Total+report.Failed,
		"positive", report.Positive,
		"negative", report.Negative,
		"failed", report.Failed,
		"restarts", sup.Restarts(),
		"languages", len(lo.Uniq(lo.Map(predictions, func(p domain.Prediction, _ int) string { return p.Lang }))))
	return predictions, report, nil
}

// complete fills the identity of predictions built outside the analyzer.
func (e *Engine) complete(p domain.Prediction) domain.Prediction {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.RunID = e.cfg.RunID
	return p
}
