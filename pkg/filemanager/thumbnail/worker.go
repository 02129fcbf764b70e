package thumbnail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// Processor handles a single job.
type Processor interface {
	Process(ctx context.Context, job filemanager.ThumbnailJob) error
}

// WorkerConfig tunes a Worker.
type WorkerConfig struct {
	// Concurrency is the number of jobs processed in parallel
	Concurrency int
	// MaxRetries bounds retries of failures that are not JobErrors.
	// Zero disables retrying.
	MaxRetries uint64
	// RetryBase is the first backoff delay, doubled on every retry
	RetryBase time.Duration
}

// Worker pulls jobs from a queue and hands them to a Processor. Each
// goroutine handles one job at a time; a failed job is logged and dropped.
// Stopping the worker never interrupts a job that is being processed.
type Worker struct {
	queue     filemanager.JobQueue
	processor Processor
	cfg       WorkerConfig
	logger    *slog.Logger

	// OnDone, when set, observes every finished job
	OnDone func(job filemanager.ThumbnailJob, err error)
}

// NewWorker creates a Worker.
func NewWorker(queue filemanager.JobQueue, processor Processor, cfg WorkerConfig, logger *slog.Logger) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{queue: queue, processor: processor, cfg: cfg, logger: logger}
}

// Run blocks until ctx is done or the queue is closed.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Thumbnail worker started", "concurrency", w.cfg.Concurrency)

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()

	w.logger.Info("Thumbnail worker stopped")
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (w *Worker) loop(ctx context.Context, id int) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, filemanager.ErrQueueClosed) {
				return
			}
			w.logger.ErrorContext(ctx, "Failed to dequeue thumbnail job", "worker", id, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.RetryBase):
			}
			continue
		}
		w.handle(ctx, id, job)
	}
}

func (w *Worker) handle(ctx context.Context, id int, job filemanager.ThumbnailJob) {
	backoff := retry.WithMaxRetries(w.cfg.MaxRetries, retry.NewExponential(w.cfg.RetryBase))

	// a started attempt runs to completion even when the worker is stopping
	jobCtx := context.WithoutCancel(ctx)

	attempt := 0
	err := retry.Do(ctx, backoff, func(context.Context) error {
		attempt++
		err := w.processor.Process(jobCtx, job)
		if err == nil || filemanager.IsJobError(err) {
			return err
		}
		return retry.RetryableError(err)
	})

	if err != nil {
		w.logger.ErrorContext(ctx, "Thumbnail job failed",
			"worker", id, "user_id", job.UserID, "file_id", job.FileID,
			"attempts", attempt, "error", err)
	} else {
		w.logger.InfoContext(ctx, "Thumbnail job done", "worker", id, "file_id", job.FileID)
	}
	if w.OnDone != nil {
		w.OnDone(job, err)
	}
}
