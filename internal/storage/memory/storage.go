package memory

import (
	"context"
	"sync"

	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/storage"
)

// DefaultCapacity is the number of ticks kept when none is given
const DefaultCapacity = 100

// Storage is an in-memory ring buffer of tick records
type Storage struct {
	mu sync.RWMutex

	ticks []model.TickRecord
	next  int // slot the next record is written to
	count int
}

// New creates a new in-memory storage holding at most capacity records
func New(capacity int) *Storage {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Storage{
		ticks: make([]model.TickRecord, capacity),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AppendTick(ctx context.Context, rec model.TickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks[s.next] = rec
	s.next = (s.next + 1) % len(s.ticks)
	if s.count < len(s.ticks) {
		s.count++
	}
	return nil
}

func (s *Storage) RecentTicks(ctx context.Context, limit int) ([]model.TickRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > s.count {
		limit = s.count
	}
	out := make([]model.TickRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.ticks)) % len(s.ticks)
		out = append(out, s.ticks[idx])
	}
	return out, nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
