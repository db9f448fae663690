package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jaki95/hls-asset-manager/config"
	"github.com/jaki95/hls-asset-manager/internal/app"
	"github.com/jaki95/hls-asset-manager/internal/progress"
	"github.com/jaki95/hls-asset-manager/internal/server"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")
	port := flag.String("port", "", "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialise application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	srv := server.New(cfg, server.Options{
		Catalog:  application.Catalog,
		Store:    application.Store,
		Notifier: application.Notifier,
		Storage:  application.Storage,
		Gatherer: application.Registry,
	})

	application.Notifier.AddListener(func(note progress.Notification) {
		slog.Info("Asset notification", "name", note.Name, "asset", note.Result.AssetName, "state", note.Result.StateLabel)
	})

	slog.Info("Starting HLS asset manager API server", "port", cfg.Server.Port, "assets", application.Catalog.Len())
	if err := srv.Start(cfg.Server.Port); err != nil {
		slog.Error("Server failed", "error", err)
		_ = application.Close()
		os.Exit(1)
	}
}
