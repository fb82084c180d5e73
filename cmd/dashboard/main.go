package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"whalelake/configs"
	"whalelake/internal/dashboard"
	"whalelake/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := configs.DashboardLoad()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewS3Store(context.Background(), cfg.Storage.Bucket)
	if err != nil {
		logger.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	loader := storage.NewLoader(store, storage.LoaderConfig{
		Prefix:        cfg.Storage.KeyPrefix,
		RecencyWindow: cfg.RecencyWindow,
		MaxSnapshots:  cfg.MaxSnapshots,
		CacheTTL:      cfg.CacheTTL,
	}, logger)

	service := dashboard.NewService(loader)
	handler := dashboard.NewHandler(service, cfg.WhaleChartMin)
	router := dashboard.NewRouter(handler)

	logger.Info("Dashboard started", "port", cfg.ServerPort, "bucket", cfg.Storage.Bucket)

	if err := router.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
