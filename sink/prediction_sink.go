package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sentiment-lab/contract"
	"sentiment-lab/domain"
	"sentiment-lab/repositories"
	"sync"
	"time"
)

var _ contract.PredictionSink = (*PredictionSink)(nil)

// PredictionSink buffers predictions and writes them to the repository in
// batches. A batch is flushed when it is full or when the buffer timeout
// expires after its first prediction. Flushes never overlap: Flush returns
// once every batch taken so far is stored, with any error a timer flush hit.
type PredictionSink struct {
	mu            sync.Mutex
	flushMu       sync.Mutex
	timerErr      error
	timer         *time.Timer
	repository    repositories.IPredictionRepository
	log           *slog.Logger
	predictions   []domain.Prediction
	batchSize     int
	bufferTimeout time.Duration
	stored        int
}

func NewPredictionSink(
	repository repositories.IPredictionRepository,
	log *slog.Logger,
	batchSize int,
	bufferTimeout time.Duration,
) *PredictionSink {
	return &PredictionSink{
		repository:    repository,
		log:           log,
		batchSize:     max(batchSize, 1),
		bufferTimeout: bufferTimeout,
	}
}

func (s *PredictionSink) Consume(ctx context.Context, p domain.Prediction) error {
	s.mu.Lock()
	s.predictions = append(s.predictions, p)

	if len(s.predictions) == 1 && s.timer == nil && s.bufferTimeout > 0 {
		s.timer = time.AfterFunc(s.bufferTimeout, func() {
			s.flushMu.Lock()
			defer s.flushMu.Unlock()
			if err := s.store(); err != nil {
				s.log.Error("Timeout flush failed", "error", err)
				s.mu.Lock()
				s.timerErr = errors.Join(s.timerErr, err)
				s.mu.Unlock()
			}
		})
	}
	isFull := len(s.predictions) >= s.batchSize
	s.mu.Unlock()

	if isFull {
		return s.Flush(ctx)
	}
	return nil
}

// Flush waits for a running timer flush, stores what is left and reports
// the errors of earlier timer flushes.
func (s *PredictionSink) Flush(_ context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	err := s.store()

	s.mu.Lock()
	timerErr := s.timerErr
	s.timerErr = nil
	s.mu.Unlock()
	return errors.Join(timerErr, err)
}

// store swaps the buffer out under the lock, then stores it. Callers hold flushMu.
func (s *PredictionSink) store() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(s.predictions) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.predictions
	s.predictions = make([]domain.Prediction, 0, s.batchSize)
	s.mu.Unlock()

	if err := s.repository.StorePredictions(batch); err != nil {
		return fmt.Errorf("failed to store batch in repository: %w", err)
	}

	s.mu.Lock()
	s.stored += len(batch)
	s.mu.Unlock()
	s.log.Debug("Batch stored successfully", "count", len(batch))
	return nil
}

// Stored counts the predictions written so far.
func (s *PredictionSink) Stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored
}
