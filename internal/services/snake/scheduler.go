package snake

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcoot/crowdsnake/internal/dependencies/clock"
	"github.com/mcoot/crowdsnake/internal/model"
)

// scheduler runs step on a fixed interval in a single background goroutine.
// It is one-shot: once started it cannot be started again, even after Stop.
type scheduler struct {
	interval time.Duration
	clock    clock.Clock
	step     func()
	logger   *slog.Logger

	started atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

func newScheduler(interval time.Duration, clk clock.Clock, step func(), logger *slog.Logger) *scheduler {
	return &scheduler{
		interval: interval,
		clock:    clk,
		step:     step,
		logger:   logger,
	}
}

// Start launches the loop. The loop exits when ctx is cancelled or Stop is called.
func (s *scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return model.ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := s.clock.NewTicker(s.interval)

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.run(ctx, ticker, done)

	s.logger.Info("scheduler started", slog.Duration("interval", s.interval))
	return nil
}

func (s *scheduler) run(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C():
			// A received tick always runs; cancellation is only observed between ticks
			s.step()
		}
	}
}

// Stop cancels the loop and waits for the current step to finish
func (s *scheduler) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return model.ErrNotStarted
	}
	cancel()
	<-done
	return nil
}

// Done is closed once the loop has exited. It is nil before Start.
func (s *scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
