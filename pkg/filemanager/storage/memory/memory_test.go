package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/filemanager"
)

func TestMemoryBackend_RoundTrip(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Upload(ctx, "k", bytes.NewReader([]byte("payload"))))

	rc, err := b.Download(ctx, "k")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	meta, err := b.GetObjectMeta(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(7), meta.Size)
	assert.Equal(t, []string{"k"}, b.Keys())

	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Download(ctx, "k")
	assert.ErrorIs(t, err, filemanager.ErrBlobNotFound)
	assert.ErrorIs(t, b.Delete(ctx, "k"), filemanager.ErrBlobNotFound)
}
