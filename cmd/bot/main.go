package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whalelake/configs"
	"whalelake/internal/alert"
	"whalelake/internal/batch"
	"whalelake/internal/feed"
	"whalelake/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := configs.BotLoad()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewS3Store(ctx, cfg.Storage.Bucket)
	if err != nil {
		logger.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	var sink *storage.Sink
	if cfg.SinkFailurePolicy == configs.FailurePolicySpool {
		spool, err := storage.NewSpool(cfg.SpoolDir, store, logger)
		if err != nil {
			logger.Error("Failed to initialize spool", "error", err)
			os.Exit(1)
		}
		go spool.Run(ctx)
		sink = storage.NewSpoolingSink(store, cfg.Storage.KeyPrefix, spool, logger)
	} else {
		sink = storage.NewSink(store, cfg.Storage.KeyPrefix, logger)
	}

	notifier := alert.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	batcher := batch.New(cfg.FlushInterval, time.Now())
	pipeline := feed.NewPipeline(batcher, sink, notifier, cfg.WhaleThreshold, logger)

	supervisor := feed.NewSupervisor(feed.SupervisorConfig{
		URL:                cfg.FeedURL,
		PingInterval:       cfg.PingInterval,
		PongTimeout:        cfg.PongTimeout,
		ExponentialBackoff: cfg.ReconnectBackoff == configs.BackoffExponential,
		ReconnectDelay:     cfg.ReconnectDelay,
	}, pipeline, logger)

	logger.Info("Whale tracker started",
		"feed", cfg.FeedURL,
		"bucket", cfg.Storage.Bucket,
		"threshold", cfg.WhaleThreshold,
		"flush_interval", cfg.FlushInterval)

	if err := supervisor.Run(ctx); err != nil {
		logger.Error("Supervisor stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Shutdown complete")
}
