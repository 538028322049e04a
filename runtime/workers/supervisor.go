package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sentiment-lab/contract"
	"sentiment-lab/errors"
	"sync"
	"sync/atomic"
	"time"
)

const waitTimeBeforeRestart = 200 * time.Millisecond

// Supervisor runs each worker in its own goroutine, recovers panics and
// restarts crashed workers until the context is canceled. Run returns once
// every worker has finished.
type Supervisor struct {
	Cancel   context.CancelFunc
	wg       *sync.WaitGroup
	log      *slog.Logger
	workers  []contract.Worker
	restarts atomic.Int64
}

var _ contract.ISupervisor = (*Supervisor)(nil)

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log}
}

// Run ties a local cancellation to the parent ctx: canceling the parent
// stops every worker, calling Stop only stops ours.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs a worker under supervision. A panic or an error restarts it
// after a short delay; a nil return ends it for good.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Debug(fmt.Sprintf("Stopping : %s", workerName))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Debug(fmt.Sprintf("Worker finished : %s", workerName))
				return
			}

			if ctx.Err() != nil {
				s.log.Debug("Worker stopped (context canceled)", "name", workerName)
				return
			}

			s.restarts.Add(1)
			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(waitTimeBeforeRestart):
			}
		}
	}()
}

// Restarts counts the worker restarts since creation.
func (s *Supervisor) Restarts() int {
	return int(s.restarts.Load())
}

// Stop cancels every supervised worker; Run still waits for them to return.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
