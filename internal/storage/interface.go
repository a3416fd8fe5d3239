package storage

import (
	"context"

	"github.com/mcoot/crowdsnake/internal/model"
)

// Storage keeps a bounded history of tick outcomes.
// It is an audit trail only; simulation state is never restored from it.
type Storage interface {
	// AppendTick records a tick, discarding the oldest entries beyond the store's limit
	AppendTick(ctx context.Context, rec model.TickRecord) error

	// RecentTicks returns up to limit records, newest first
	RecentTicks(ctx context.Context, limit int) ([]model.TickRecord, error)

	// Close releases any held resources
	Close() error
}
