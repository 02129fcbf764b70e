package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tendant/simple-files/internal/password"
	"github.com/tendant/simple-files/pkg/filemanager"
	memoryqueue "github.com/tendant/simple-files/pkg/filemanager/queue/memory"
	redisqueue "github.com/tendant/simple-files/pkg/filemanager/queue/redis"
	"github.com/tendant/simple-files/pkg/filemanager/repo/memory"
	repopg "github.com/tendant/simple-files/pkg/filemanager/repo/postgres"
	sessionmemory "github.com/tendant/simple-files/pkg/filemanager/session/memory"
	sessionredis "github.com/tendant/simple-files/pkg/filemanager/session/redis"
	fsstorage "github.com/tendant/simple-files/pkg/filemanager/storage/fs"
	memorystorage "github.com/tendant/simple-files/pkg/filemanager/storage/memory"
	"github.com/tendant/simple-files/pkg/filemanager/thumbnail"
)

// Runtime holds the wired components built from a ServerConfig.
type Runtime struct {
	Service   filemanager.Service
	Accounts  *filemanager.Accounts
	Access    *filemanager.AccessControl
	Queue     filemanager.JobQueue
	Generator *thumbnail.Generator

	// Pingers reports backend health by name ("db", "redis")
	Pingers map[string]filemanager.Pinger

	workerConfig thumbnail.WorkerConfig
	logger       *slog.Logger
	closers      []func()
}

// NewWorker creates a thumbnail worker consuming the runtime's queue.
func (r *Runtime) NewWorker() *thumbnail.Worker {
	return thumbnail.NewWorker(r.Queue, r.Generator, r.workerConfig, r.logger)
}

// Close releases connections in reverse order of creation.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// Build connects the configured backends and assembles the services.
func (c *ServerConfig) Build(ctx context.Context) (*Runtime, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Runtime{
		Pingers: map[string]filemanager.Pinger{},
		workerConfig: thumbnail.WorkerConfig{
			Concurrency: c.WorkerConcurrency,
			MaxRetries:  uint64(c.JobMaxRetries),
			RetryBase:   c.JobRetryBase,
		},
		logger: logger,
	}

	repo, err := c.buildRepository(ctx, rt)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildStorageBackend()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	sessions, queue, err := c.buildSessionsAndQueue(ctx, rt)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build sessions and queue: %w", err)
	}
	rt.Queue = queue
	rt.Access = filemanager.NewAccessControl(sessions)

	rt.Service, err = filemanager.New(
		filemanager.WithRepository(repo),
		filemanager.WithBlobStore(c.StorageType, store),
		filemanager.WithJobQueue(queue),
		filemanager.WithAccessControl(rt.Access),
		filemanager.WithLogger(logger),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Accounts, err = filemanager.NewAccounts(repo, sessions, password.New(0), logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Generator = thumbnail.NewGenerator(repo, c.StorageType, store, logger)
	return rt, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context, rt *Runtime) (filemanager.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		repo := memory.New()
		rt.Pingers["db"] = repo
		return repo, nil
	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		if err := repopg.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		repo := repopg.NewWithPool(pool)
		rt.Pingers["db"] = repo
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

// buildStorageBackend creates a BlobStore based on the configuration
func (c *ServerConfig) buildStorageBackend() (filemanager.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.FolderPath})
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.StorageType)
	}
}

func (c *ServerConfig) buildSessionsAndQueue(ctx context.Context, rt *Runtime) (filemanager.SessionStore, filemanager.JobQueue, error) {
	switch c.QueueType {
	case "memory":
		sessions := sessionmemory.New()
		queue := memoryqueue.New(0)
		rt.closers = append(rt.closers, func() { _ = queue.Close() })
		rt.Pingers["redis"] = sessions
		return sessions, queue, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		rt.closers = append(rt.closers, func() { _ = client.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		sessions := sessionredis.New(client)
		rt.Pingers["redis"] = sessions
		return sessions, redisqueue.New(client, rt.logger), nil
	default:
		return nil, nil, fmt.Errorf("unsupported queue type: %s", c.QueueType)
	}
}
