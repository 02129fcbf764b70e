package config

import (
	"fmt"
	"log/slog"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithFolderPath stores content on the local filesystem under path
func WithFolderPath(path string) Option {
	return func(c *ServerConfig) error {
		if path == "" {
			return fmt.Errorf("folder path cannot be empty")
		}
		c.StorageType = "fs"
		c.FolderPath = path
		return nil
	}
}

// WithMemoryStorage keeps content in process memory
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.StorageType = "memory"
		return nil
	}
}

// WithRedis moves sessions and the thumbnail queue to Redis
func WithRedis(addr, password string, db int) Option {
	return func(c *ServerConfig) error {
		if addr == "" {
			return fmt.Errorf("redis address cannot be empty")
		}
		c.QueueType = "redis"
		c.RedisAddr = addr
		c.RedisPassword = password
		c.RedisDB = db
		return nil
	}
}

// WithWorkerConcurrency sets the number of thumbnail worker goroutines.
// Zero disables the in-process worker.
func WithWorkerConcurrency(n int) Option {
	return func(c *ServerConfig) error {
		if n < 0 {
			return fmt.Errorf("worker concurrency cannot be negative")
		}
		c.WorkerConcurrency = n
		return nil
	}
}

// WithJobRetry retries transient job failures up to maxRetries times
func WithJobRetry(maxRetries int, base time.Duration) Option {
	return func(c *ServerConfig) error {
		c.JobMaxRetries = maxRetries
		c.JobRetryBase = base
		return nil
	}
}

// WithLogger sets the logger handed to every component
func WithLogger(logger *slog.Logger) Option {
	return func(c *ServerConfig) error {
		c.Logger = logger
		return nil
	}
}
