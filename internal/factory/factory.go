package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/crowdsnake/internal/dependencies/clock"
	"github.com/mcoot/crowdsnake/internal/dependencies/random"
	"github.com/mcoot/crowdsnake/internal/model"
	"github.com/mcoot/crowdsnake/internal/services/history"
	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/storage"
	"github.com/mcoot/crowdsnake/internal/storage/memory"
	redisstorage "github.com/mcoot/crowdsnake/internal/storage/redis"
	"github.com/mcoot/crowdsnake/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Simulation  *snake.Simulation
	History     *history.Service
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the tick history backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Simulation holds board size and tick interval
	// If zero value, defaults to snake.DefaultConfig()
	Simulation snake.Config
	// HistoryLimit caps the number of stored tick records
	// If zero, defaults to memory.DefaultCapacity
	HistoryLimit int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = memory.DefaultCapacity
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(historyLimit)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		redisCfg.HistoryLimit = historyLimit
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}

	app, err := newWithDependencies(store, clock.New(), random.New(), cfg.Simulation, historyLimit, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("application wired",
		slog.String("storage", storageType),
		slog.Int("board_size", app.Simulation.Config().BoardSize),
		slog.Duration("tick_interval", app.Simulation.Config().TickInterval),
		slog.Int("history_limit", historyLimit))
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, simCfg snake.Config, historyLimit int, logger *slog.Logger) (*App, error) {
	if simCfg == (snake.Config{}) {
		simCfg = snake.DefaultConfig()
	}

	sim, err := snake.NewSimulation(simCfg, rnd, clk, logger)
	if err != nil {
		return nil, err
	}

	historyService := history.New(store, historyLimit, logger)
	hub := sse.NewHub(logger)
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, logger)

	sim.Subscribe(historyService.Record)
	sim.Subscribe(broadcaster.OnTick)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Simulation:  sim,
		History:     historyService,
		Hub:         hub,
		Broadcaster: broadcaster,
		Logger:      logger,
	}, nil
}

// Close stops the simulation, flushes history, disconnects live clients and releases storage
func (a *App) Close() error {
	if err := a.Simulation.Stop(); err != nil && !errors.Is(err, model.ErrNotStarted) {
		return err
	}
	a.History.Close()
	a.Hub.Close()
	return a.Storage.Close()
}
