package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/kaddem/internal/bootstrap"
	"github.com/yigit/kaddem/internal/config"
	"github.com/yigit/kaddem/internal/exporter"
	"github.com/yigit/kaddem/internal/pkg/logger"
)

func main() {
	configPath := os.Getenv("KADDEM_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath, "exporter")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize exporter")
		os.Exit(1)
	}

	exp, err := exporter.New(exporter.Config{
		FrontendURL: cfg.Exporter.FrontendURL,
		Interval:    cfg.Exporter.ProbeInterval,
		Timeout:     cfg.Exporter.ProbeTimeout,
		Logger:      lgr,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Invalid exporter configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := exp.Run(ctx, ":"+cfg.Exporter.Port); err != nil {
		lgr.Error().Err(err).Msg("Exporter stopped with error")
		os.Exit(1)
	}
	lgr.Info().Msg("Exporter stopped")
}
