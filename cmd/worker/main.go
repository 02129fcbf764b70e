package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tendant/simple-files/pkg/filemanager/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if os.Getenv("ENVIRONMENT") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Worker stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(config.WithEnv(), config.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := validateWorkerConfig(cfg); err != nil {
		return err
	}
	if cfg.WorkerConcurrency == 0 {
		cfg.WorkerConcurrency = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := cfg.Build(ctx)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}
	defer rt.Close()

	logger.Info("Thumbnail worker starting", "concurrency", cfg.WorkerConcurrency, "max_retries", cfg.JobMaxRetries)
	if err := rt.NewWorker().Run(ctx); err != nil {
		return err
	}
	logger.Info("Worker exiting")
	return nil
}

// validateWorkerConfig rejects backends that only live inside one process.
// The worker shares the queue, the file records and the content with the API
// server, so all three must be external.
func validateWorkerConfig(cfg *config.ServerConfig) error {
	if cfg.QueueType != "redis" {
		return errors.New("REDIS_ADDR is required: a standalone worker cannot reach an in-memory queue")
	}
	if cfg.DatabaseType != "postgres" {
		return errors.New("DATABASE_URL is required: a standalone worker cannot read in-memory file records")
	}
	if cfg.StorageType != "fs" {
		return fmt.Errorf("storage type %q is not shared with the API server, use fs", cfg.StorageType)
	}
	return nil
}
