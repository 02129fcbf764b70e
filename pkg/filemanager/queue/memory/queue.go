package memory

import (
	"context"
	"sync"

	"github.com/tendant/simple-files/pkg/filemanager"
)

const defaultCapacity = 1024

// Queue is a buffered, channel backed filemanager.JobQueue for a single
// process.
type Queue struct {
	jobs      chan filemanager.ThumbnailJob
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a queue holding up to capacity pending jobs
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Queue{
		jobs: make(chan filemanager.ThumbnailJob, capacity),
		done: make(chan struct{}),
	}
}

// Enqueue never blocks. A full queue rejects the job with
// filemanager.ErrQueueFull.
func (q *Queue) Enqueue(ctx context.Context, job filemanager.ThumbnailJob) error {
	select {
	case <-q.done:
		return filemanager.ErrQueueClosed
	default:
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return filemanager.ErrQueueFull
	}
}

func (q *Queue) Dequeue(ctx context.Context) (filemanager.ThumbnailJob, error) {
	select {
	case job := <-q.jobs:
		return job, nil
	case <-q.done:
		return filemanager.ThumbnailJob{}, filemanager.ErrQueueClosed
	case <-ctx.Done():
		return filemanager.ThumbnailJob{}, ctx.Err()
	}
}

// Len returns the number of pending jobs
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Close stops the queue. Pending jobs are dropped.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}
