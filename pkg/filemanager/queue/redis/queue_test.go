package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/filemanager"
)

func newTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, nil), mr
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	q, mr := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, filemanager.ThumbnailJob{UserID: "u1", FileID: "f1"}))
	require.NoError(t, q.Enqueue(ctx, filemanager.ThumbnailJob{UserID: "u1", FileID: "f2"}))

	// wire format is the plain {userId, fileId} object
	items, err := mr.List(DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, items, `{"userId":"u1","fileId":"f1"}`)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "f1", job.FileID)

	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "f2", job.FileID)
}

func TestQueue_MalformedPayloadYieldsEmptyJob(t *testing.T) {
	q, mr := newTestQueue(t)
	_, err := mr.Lpush(DefaultKey, "not json")
	require.NoError(t, err)

	job, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filemanager.ThumbnailJob{}, job)
}

func TestQueue_DequeueStopsOnCancel(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.Error(t, err)
}
