package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors the environment variables understood by WithEnv.
// Unset variables leave the current value untouched.
type envConfig struct {
	Port        string `env:"PORT" env-description:"HTTP port"`
	Environment string `env:"ENVIRONMENT" env-description:"Runtime environment"`

	FolderPath string `env:"FOLDER_PATH" env-description:"Directory holding file content"`

	DatabaseURL string `env:"DATABASE_URL" env-description:"postgres:// connection string, empty or 'memory' for in-memory"`
	DBSchema    string `env:"DB_SCHEMA" env-description:"Postgres schema"`

	RedisAddr     string `env:"REDIS_ADDR" env-description:"Redis host:port, empty for in-memory sessions and queue"`
	RedisPassword string `env:"REDIS_PASSWORD" env-description:"Redis password"`
	RedisDB       int    `env:"REDIS_DB" env-description:"Redis database number"`

	WorkerConcurrency int           `env:"WORKER_CONCURRENCY" env-description:"Thumbnail worker goroutines"`
	JobMaxRetries     int           `env:"JOB_MAX_RETRIES" env-description:"Retries for transient thumbnail failures"`
	JobRetryBase      time.Duration `env:"JOB_RETRY_BASE" env-description:"Base delay of the exponential retry backoff"`
}

// WithEnv applies environment variable overrides.
//
//	PORT               - Server port (default: "5000")
//	ENVIRONMENT        - Runtime environment (default: "development")
//	FOLDER_PATH        - Content directory (default: "/tmp/files_manager")
//	DATABASE_URL       - "postgres://..." selects Postgres, empty or "memory" keeps memory
//	DB_SCHEMA          - Postgres search_path (default: "public")
//	REDIS_ADDR         - host:port selects Redis sessions and queue
//	REDIS_PASSWORD, REDIS_DB
//	WORKER_CONCURRENCY - Thumbnail worker goroutines (default: 2)
//	JOB_MAX_RETRIES    - Retries for transient job failures (default: 0)
//	JOB_RETRY_BASE     - Backoff base (default: 500ms)
func WithEnv() Option {
	return func(c *ServerConfig) error {
		env := envConfig{
			Port:              c.Port,
			Environment:       c.Environment,
			FolderPath:        c.FolderPath,
			DatabaseURL:       c.DatabaseURL,
			DBSchema:          c.DBSchema,
			RedisAddr:         c.RedisAddr,
			RedisPassword:     c.RedisPassword,
			RedisDB:           c.RedisDB,
			WorkerConcurrency: c.WorkerConcurrency,
			JobMaxRetries:     c.JobMaxRetries,
			JobRetryBase:      c.JobRetryBase,
		}
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.DBSchema = env.DBSchema
		c.WorkerConcurrency = env.WorkerConcurrency
		c.JobMaxRetries = env.JobMaxRetries
		c.JobRetryBase = env.JobRetryBase

		if env.FolderPath != c.FolderPath {
			c.StorageType = "fs"
			c.FolderPath = env.FolderPath
		}

		if err := applyDatabaseURL(c, env.DatabaseURL); err != nil {
			return err
		}

		c.RedisPassword = env.RedisPassword
		c.RedisDB = env.RedisDB
		c.RedisAddr = env.RedisAddr
		if env.RedisAddr != "" {
			c.QueueType = "redis"
		}
		return nil
	}
}

func applyDatabaseURL(c *ServerConfig, url string) error {
	switch {
	case url == "" || url == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = url
	default:
		return fmt.Errorf("unsupported DATABASE_URL scheme: %s", url)
	}
	return nil
}

// Usage describes the environment variables read by WithEnv.
func Usage() string {
	var env envConfig
	text, err := cleanenv.GetDescription(&env, nil)
	if err != nil {
		return ""
	}
	return text
}
