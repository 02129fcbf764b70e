// Package redis implements the thumbnail job queue as a Redis list shared by
// every server and worker process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// DefaultKey is the list holding pending jobs.
const DefaultKey = "fileQueue"

const pollInterval = time.Second

// Queue pushes jobs with LPUSH and pops them with BRPOP, giving FIFO order.
// Each job is delivered to exactly one consumer.
type Queue struct {
	client *goredis.Client
	key    string
	logger *slog.Logger
}

// New creates a queue on DefaultKey.
func New(client *goredis.Client, logger *slog.Logger) *Queue {
	return NewWithKey(client, DefaultKey, logger)
}

// NewWithKey creates a queue on a custom list key.
func NewWithKey(client *goredis.Client, key string, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{client: client, key: key, logger: logger}
}

func (q *Queue) Enqueue(ctx context.Context, job filemanager.ThumbnailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Dequeue waits for the next job. Payloads that do not decode yield an empty
// job, which the worker rejects as missing its ids.
func (q *Queue) Dequeue(ctx context.Context) (filemanager.ThumbnailJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return filemanager.ThumbnailJob{}, err
		}
		res, err := q.client.BRPop(ctx, pollInterval, q.key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return filemanager.ThumbnailJob{}, ctxErr
			}
			return filemanager.ThumbnailJob{}, fmt.Errorf("pop job: %w", err)
		}
		// res is [key, value]
		var job filemanager.ThumbnailJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.logger.WarnContext(ctx, "Undecodable thumbnail job", "payload", res[1], "error", err)
			return filemanager.ThumbnailJob{}, nil
		}
		return job, nil
	}
}

// Len returns the number of pending jobs.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
