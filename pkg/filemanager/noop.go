package filemanager

import (
	"context"
)

// NoopJobQueue discards every job. Dequeue blocks until ctx is done.
type NoopJobQueue struct{}

// NewNoopJobQueue creates a queue that drops all jobs
func NewNoopJobQueue() *NoopJobQueue {
	return &NoopJobQueue{}
}

func (q *NoopJobQueue) Enqueue(ctx context.Context, job ThumbnailJob) error {
	return nil
}

func (q *NoopJobQueue) Dequeue(ctx context.Context) (ThumbnailJob, error) {
	<-ctx.Done()
	return ThumbnailJob{}, ctx.Err()
}
