package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/storage"
)

// Defaults for Recent
const (
	DefaultLimit = 20
	writeTimeout = 2 * time.Second
	queueSize    = 64
)

// Service records tick outcomes and serves them back newest first.
// Writes happen on a single background worker so a slow store never blocks the caller of Record.
type Service struct {
	storage storage.Storage
	limit   int
	logger  *slog.Logger

	queue     chan model.TickRecord
	flush     chan chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a history service and starts its writer; limit caps how many records Recent returns.
// Call Close to stop the writer.
func New(store storage.Storage, limit int, logger *slog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s := &Service{
		storage: store,
		limit:   limit,
		logger:  logger.With(slog.String("component", "history")),
		queue:   make(chan model.TickRecord, queueSize),
		flush:   make(chan chan struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Limit returns the maximum number of records Recent will return
func (s *Service) Limit() int {
	return s.limit
}

// Record queues rec for storage. It matches snake.TickObserver so it can subscribe directly.
// It never blocks: when the queue is full or the service is closed the record is dropped.
func (s *Service) Record(rec model.TickRecord, _ string) {
	select {
	case <-s.stop:
		return
	default:
	}

	select {
	case s.queue <- rec:
	default:
		s.logger.Warn("history queue full, dropping tick", slog.Int64("tick", rec.Tick))
	}
}

// Flush waits until every record queued before the call has been written
func (s *Service) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case s.flush <- ack:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes whatever is still queued, then stops the writer. Safe to call more than once.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

// Recent returns up to n records, newest first. n is clamped to [1, Limit()].
func (s *Service) Recent(ctx context.Context, n int) ([]model.TickRecord, error) {
	if n <= 0 {
		n = min(DefaultLimit, s.limit)
	}
	if n > s.limit {
		n = s.limit
	}
	return s.storage.RecentTicks(ctx, n)
}

func (s *Service) run() {
	defer close(s.done)

	for {
		select {
		case rec := <-s.queue:
			s.write(context.Background(), rec)
		case ack := <-s.flush:
			s.drain(context.Background())
			close(ack)
		case <-s.stop:
			// Shutdown gets one write timeout in total, not one per record
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			s.drain(ctx)
			cancel()
			return
		}
	}
}

// drain writes queued records without waiting for new ones
func (s *Service) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			if n := len(s.queue); n > 0 {
				s.logger.Warn("history drain timed out, dropping ticks", slog.Int("dropped", n))
			}
			return
		}
		select {
		case rec := <-s.queue:
			s.write(ctx, rec)
		default:
			return
		}
	}
}

func (s *Service) write(ctx context.Context, rec model.TickRecord) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := s.storage.AppendTick(ctx, rec); err != nil {
		s.logger.Warn("failed to record tick",
			slog.Int64("tick", rec.Tick),
			slog.String("error", err.Error()),
		)
	}
}
