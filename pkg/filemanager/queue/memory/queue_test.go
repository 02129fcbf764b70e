package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/filemanager"
)

func TestQueue_FIFO(t *testing.T) {
	q := New(4)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, filemanager.ThumbnailJob{UserID: "u", FileID: "1"}))
	require.NoError(t, q.Enqueue(ctx, filemanager.ThumbnailJob{UserID: "u", FileID: "2"}))
	assert.Equal(t, 2, q.Len())

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", job.FileID)
	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", job.FileID)
}

func TestQueue_DequeueHonoursContext(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_Close(t *testing.T) {
	q := New(1)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	_, err := q.Dequeue(context.Background())
	assert.ErrorIs(t, err, filemanager.ErrQueueClosed)
	assert.ErrorIs(t, q.Enqueue(context.Background(), filemanager.ThumbnailJob{}), filemanager.ErrQueueClosed)
}

func TestQueue_EnqueueRejectsWhenFull(t *testing.T) {
	q := New(1)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, filemanager.ThumbnailJob{UserID: "u", FileID: "1"}))

	start := time.Now()
	err := q.Enqueue(ctx, filemanager.ThumbnailJob{UserID: "u", FileID: "2"})
	assert.ErrorIs(t, err, filemanager.ErrQueueFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, q.Len())
}
