package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/lumina/adapter/cli"
	"github.com/felixgeelhaar/lumina/adapter/cli/album"
	"github.com/felixgeelhaar/lumina/pkg/config"
	"github.com/felixgeelhaar/lumina/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logCfg.ServiceVersion = cfg.Version
	logger := observability.NewLogger(logCfg)
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize CLI", "error", err)
		os.Exit(1)
	}
	defer app.Close()
	cli.SetApp(app)

	cli.AddCommand(album.Cmd)

	cli.Execute(ctx)
}
