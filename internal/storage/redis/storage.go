package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AppendTick(ctx context.Context, rec model.TickRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := ticksKey()

	// Push, trim and refresh TTL in one round trip
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.HistoryLimit > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.HistoryLimit-1))
	}
	if s.cfg.HistoryTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.HistoryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentTicks(ctx context.Context, limit int) ([]model.TickRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	values, err := s.client.LRange(ctx, ticksKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	recs := make([]model.TickRecord, 0, len(values))
	for _, val := range values {
		var rec model.TickRecord
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			continue // Skip invalid data
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
