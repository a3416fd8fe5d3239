package factory

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.App.Simulation.BoardSize)
	assert.Equal(t, time.Second, cfg.App.Simulation.TickInterval)
	assert.Equal(t, 100, cfg.App.HistoryLimit)
	assert.Equal(t, StorageTypeMemory, cfg.App.StorageType)
	assert.Nil(t, cfg.App.RedisConfig)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	cfg, err := ConfigFromEnv(envFrom(map[string]string{
		EnvBoardSize:    "20",
		EnvTickInterval: "250ms",
		EnvHistoryLimit: "7",
		EnvPort:         "8081",
		EnvStorageType:  "Redis",
		EnvRedisURL:     "redis://localhost:6379/0",
		EnvLogLevel:     "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.App.Simulation.BoardSize)
	assert.Equal(t, 250*time.Millisecond, cfg.App.Simulation.TickInterval)
	assert.Equal(t, 7, cfg.App.HistoryLimit)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, StorageTypeRedis, cfg.App.StorageType)
	require.NotNil(t, cfg.App.RedisConfig)
	assert.Equal(t, "redis://localhost:6379/0", cfg.App.RedisConfig.URL)
	assert.Equal(t, 7, cfg.App.RedisConfig.HistoryLimit)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"board size not a number", map[string]string{EnvBoardSize: "big"}},
		{"board size too small", map[string]string{EnvBoardSize: "2"}},
		{"bad interval", map[string]string{EnvTickInterval: "soon"}},
		{"zero interval", map[string]string{EnvTickInterval: "0s"}},
		{"zero history", map[string]string{EnvHistoryLimit: "0"}},
		{"port out of range", map[string]string{EnvPort: "70000"}},
		{"unknown storage", map[string]string{EnvStorageType: "sqlite"}},
		{"redis without url", map[string]string{EnvStorageType: "redis"}},
		{"bad log level", map[string]string{EnvLogLevel: "chatty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromEnv(envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
