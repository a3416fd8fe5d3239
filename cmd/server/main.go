package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/crowdsnake/internal/api"
	"github.com/mcoot/crowdsnake/internal/factory"
	"github.com/mcoot/crowdsnake/internal/web"
)

func main() {
	envCfg, err := factory.ConfigFromEnv(os.Getenv)

	level := slog.LevelInfo
	if err == nil {
		level = envCfg.LogLevel
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := envCfg.App
	cfg.Logger = logger

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Simulation: app.Simulation,
		History:    app.History,
		Hub:        app.Hub,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:     logger,
		Simulation: app.Simulation,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = envCfg.Port
	server := api.NewServer(api.Mount(apiRouter, webRouter), serverConfig, logger)
	// Event streams never finish on their own; closing the hub ends them
	server.OnShutdown(app.Hub.Close)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Simulation.Start(ctx); err != nil {
		logger.Error("failed to start simulation", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runErr := server.Run(ctx)
	if runErr != nil {
		logger.Error("server error", slog.String("error", runErr.Error()))
	}

	if err := app.Close(); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	if runErr != nil {
		os.Exit(1)
	}
}
