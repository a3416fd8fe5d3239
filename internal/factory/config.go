package factory

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/crowdsnake/internal/services/snake"
	"github.com/mcoot/crowdsnake/internal/storage/memory"
	redisstorage "github.com/mcoot/crowdsnake/internal/storage/redis"
)

// Environment variable names
const (
	EnvBoardSize    = "SNAKE_BOARD_SIZE"
	EnvTickInterval = "SNAKE_TICK_INTERVAL"
	EnvHistoryLimit = "SNAKE_HISTORY_LIMIT"
	EnvPort         = "PORT"
	EnvStorageType  = "STORAGE_TYPE"
	EnvRedisURL     = "REDIS_URL"
	EnvLogLevel     = "LOG_LEVEL"
)

// DefaultPort is the HTTP port used when PORT is unset
const DefaultPort = 3000

// EnvConfig is everything the server reads from its environment
type EnvConfig struct {
	App      Config
	Port     int
	LogLevel slog.Level
}

// ConfigFromEnv reads settings through getenv, typically os.Getenv.
// Unset variables take their defaults; malformed ones are an error.
func ConfigFromEnv(getenv func(string) string) (EnvConfig, error) {
	cfg := EnvConfig{
		App: Config{
			StorageType:  StorageTypeMemory,
			Simulation:   snake.DefaultConfig(),
			HistoryLimit: memory.DefaultCapacity,
		},
		Port:     DefaultPort,
		LogLevel: slog.LevelInfo,
	}

	var err error
	if cfg.App.Simulation.BoardSize, err = intFromEnv(getenv, EnvBoardSize, cfg.App.Simulation.BoardSize); err != nil {
		return EnvConfig{}, err
	}
	if v := getenv(EnvTickInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return EnvConfig{}, fmt.Errorf("%s: %w", EnvTickInterval, err)
		}
		cfg.App.Simulation.TickInterval = d
	}
	if err := cfg.App.Simulation.Validate(); err != nil {
		return EnvConfig{}, err
	}
	if cfg.App.HistoryLimit, err = intFromEnv(getenv, EnvHistoryLimit, cfg.App.HistoryLimit); err != nil {
		return EnvConfig{}, err
	}
	if cfg.App.HistoryLimit < 1 {
		return EnvConfig{}, fmt.Errorf("%s must be at least 1", EnvHistoryLimit)
	}
	if cfg.Port, err = intFromEnv(getenv, EnvPort, cfg.Port); err != nil {
		return EnvConfig{}, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return EnvConfig{}, fmt.Errorf("%s out of range: %d", EnvPort, cfg.Port)
	}

	if v := getenv(EnvStorageType); v != "" {
		cfg.App.StorageType = strings.ToLower(v)
	}
	switch cfg.App.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		url := getenv(EnvRedisURL)
		if url == "" {
			return EnvConfig{}, fmt.Errorf("%s required when %s=redis", EnvRedisURL, EnvStorageType)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = url
		redisCfg.HistoryLimit = cfg.App.HistoryLimit
		cfg.App.RedisConfig = &redisCfg
	default:
		return EnvConfig{}, fmt.Errorf("%s must be memory or redis, got %q", EnvStorageType, cfg.App.StorageType)
	}

	if v := getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return EnvConfig{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
