package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:              "5000",
		Environment:       "development",
		DatabaseType:      "memory",
		DBSchema:          "public",
		StorageType:       "fs",
		FolderPath:        "/tmp/files_manager",
		QueueType:         "memory",
		WorkerConcurrency: 2,
		JobMaxRetries:     0,
		JobRetryBase:      500 * time.Millisecond,
	}
}

// ServerConfig represents configuration for the files API and thumbnail worker
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: public)

	// Blob storage
	StorageType string // "fs", "memory"
	FolderPath  string

	// Sessions and the thumbnail queue share one Redis connection
	QueueType     string // "memory", "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Thumbnail worker
	WorkerConcurrency int
	JobMaxRetries     int
	JobRetryBase      time.Duration

	Logger *slog.Logger
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FolderPath == "" {
			return errors.New("folder_path is required when using fs storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	if c.QueueType != "memory" && c.QueueType != "redis" {
		return errors.New("queue_type must be 'memory' or 'redis'")
	}
	if c.QueueType == "redis" && c.RedisAddr == "" {
		return errors.New("redis_addr is required when using redis")
	}

	if c.WorkerConcurrency < 0 {
		return errors.New("worker_concurrency cannot be negative")
	}
	if c.JobMaxRetries < 0 {
		return errors.New("job_max_retries cannot be negative")
	}
	if c.JobRetryBase <= 0 {
		return errors.New("job_retry_base must be positive")
	}

	return nil
}
