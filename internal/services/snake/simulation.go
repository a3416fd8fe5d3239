package snake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/crowdsnake/internal/dependencies/clock"
	"github.com/mcoot/crowdsnake/internal/dependencies/random"
	"github.com/mcoot/crowdsnake/internal/model"
)

// Config holds construction-time settings for a Simulation
type Config struct {
	BoardSize    int
	TickInterval time.Duration
}

// DefaultConfig returns the settings the original game shipped with
func DefaultConfig() Config {
	return Config{
		BoardSize:    50,
		TickInterval: time.Second,
	}
}

// Validate checks the config can build a simulation
func (c Config) Validate() error {
	if c.BoardSize < MinBoardSize {
		return fmt.Errorf("%w: got %d", model.ErrInvalidBoardSize, c.BoardSize)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: got %s", model.ErrInvalidTickInterval, c.TickInterval)
	}
	return nil
}

// TickObserver is notified after every tick with the outcome and the rendered board.
// Observers run on the scheduler goroutine after the state lock is released.
type TickObserver func(rec model.TickRecord, board string)

// Simulation guards a GameState with a reader/writer lock and drives it on a timer
type Simulation struct {
	mu       sync.RWMutex
	state    *GameState
	template []byte // empty board, never mutated

	cfg       Config
	clock     clock.Clock
	logger    *slog.Logger
	scheduler *scheduler

	observersMu sync.RWMutex
	observers   []TickObserver
}

// NewSimulation creates a simulation; call Start to begin ticking
func NewSimulation(cfg Config, rnd random.Random, clk clock.Clock, logger *slog.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	state, err := NewGameState(cfg.BoardSize, rnd)
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("component", "simulation"))
	s := &Simulation{
		state:    state,
		template: newBoardTemplate(cfg.BoardSize),
		cfg:      cfg,
		clock:    clk,
		logger:   logger,
	}
	s.scheduler = newScheduler(cfg.TickInterval, clk, func() { s.Tick() }, logger)
	return s, nil
}

// Config returns the settings the simulation was built with
func (s *Simulation) Config() Config {
	return s.cfg
}

// CastVote adds one vote for d to the current tally.
// Votes are accepted before Start but rejected with ErrStopped once the scheduler has exited.
func (s *Simulation) CastVote(d model.Direction) error {
	if !d.IsValid() {
		return fmt.Errorf("%w: %d", model.ErrInvalidDirection, int(d))
	}
	if s.stopped() {
		return model.ErrStopped
	}
	s.mu.Lock()
	s.state.AddVote(d)
	s.mu.Unlock()
	return nil
}

// RenderBoard returns the board as size rows of size cells, each row ending in '\n'
func (s *Simulation) RenderBoard() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.render(s.template)
}

// Snapshot returns a copy of the current state
func (s *Simulation) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// Subscribe registers an observer for tick outcomes
func (s *Simulation) Subscribe(obs TickObserver) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.observers = append(s.observers, obs)
}

// Tick runs one update step. The scheduler calls it; tests may call it directly.
func (s *Simulation) Tick() model.TickRecord {
	s.observersMu.RLock()
	observers := s.observers
	s.observersMu.RUnlock()

	s.mu.Lock()
	s.state.Update()
	rec := s.state.LastOutcome()
	var board string
	if len(observers) > 0 {
		board = s.state.render(s.template)
	}
	s.mu.Unlock()

	rec.At = s.clock.Now()

	if rec.Reset {
		s.logger.Info("snake collided with itself, board reset", slog.Int64("tick", rec.Tick))
	} else {
		s.logger.Debug("tick",
			slog.Int64("tick", rec.Tick),
			slog.String("heading", rec.Heading.String()),
			slog.Int("votes", rec.Votes.Total()),
			slog.Int("length", rec.Length),
			slog.Bool("ate", rec.Ate),
		)
	}

	for _, obs := range observers {
		obs(rec, board)
	}
	return rec
}

// Start launches the tick scheduler. It may only be called once.
func (s *Simulation) Start(ctx context.Context) error {
	return s.scheduler.Start(ctx)
}

// Stop halts the scheduler after the current tick and waits for it to exit
func (s *Simulation) Stop() error {
	return s.scheduler.Stop()
}

// Done is closed when the scheduler has exited; nil before Start
func (s *Simulation) Done() <-chan struct{} {
	return s.scheduler.Done()
}

// Running reports whether the scheduler has been started and has not yet exited
func (s *Simulation) Running() bool {
	return s.Done() != nil && !s.stopped()
}

func (s *Simulation) stopped() bool {
	done := s.Done()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}
