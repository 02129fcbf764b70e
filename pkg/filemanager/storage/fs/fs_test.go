package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/filemanager"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	require.NoError(t, err)

	ctx := context.Background()
	key := "5b0f2c1e-8d2a-4c55-9a57-3f0d6b1d9a11"

	// Upload
	data := []byte("hello fs")
	require.NoError(t, backend.Upload(ctx, key, bytes.NewReader(data)))

	// Stored directly under the base directory
	onDisk, err := os.ReadFile(filepath.Join(tmp, key))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	// GetObjectMeta
	meta, err := backend.GetObjectMeta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, key, meta.Key)

	// Download
	rc, err := backend.Download(ctx, key)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, data, got)

	// Delete
	require.NoError(t, backend.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(tmp, key))
	assert.True(t, os.IsNotExist(err))
}

func TestFSBackend_UploadOverwrites(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "abc_500", bytes.NewReader([]byte("first version"))))
	require.NoError(t, backend.Upload(ctx, "abc_500", bytes.NewReader([]byte("second"))))

	rc, err := backend.Download(ctx, "abc_500")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(backend.BaseDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFSBackend_MissingBlob(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = backend.Download(ctx, "missing")
	assert.ErrorIs(t, err, filemanager.ErrBlobNotFound)

	_, err = backend.GetObjectMeta(ctx, "missing")
	assert.ErrorIs(t, err, filemanager.ErrBlobNotFound)

	assert.ErrorIs(t, backend.Delete(ctx, "missing"), filemanager.ErrBlobNotFound)
}

func TestFSBackend_RejectsEscapingLocators(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	for _, locator := range []string{"", "..", "../etc/passwd", "a/b", `a\b`} {
		err := backend.Upload(ctx, locator, bytes.NewReader([]byte("x")))
		assert.Error(t, err, "locator %q", locator)
		assert.NotErrorIs(t, err, filemanager.ErrBlobNotFound)
	}
}

func TestFSBackend_RequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
