package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tendant/simple-files/pkg/filemanager"
)

// Backend is an in-memory implementation of the filemanager.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	updatedAt map[string]time.Time
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:   make(map[string][]byte),
		updatedAt: make(map[string]time.Time),
	}
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, locator string) (*filemanager.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[locator]
	if !exists {
		return nil, filemanager.ErrBlobNotFound
	}

	return &filemanager.ObjectMeta{
		Key:         locator,
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		UpdatedAt:   b.updatedAt[locator],
	}, nil
}

// Upload stores content, replacing any previous value
func (b *Backend) Upload(ctx context.Context, locator string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[locator] = data
	b.updatedAt[locator] = time.Now().UTC()
	return nil
}

// Download returns a reader over the stored bytes
func (b *Backend) Download(ctx context.Context, locator string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[locator]
	if !exists {
		return nil, filemanager.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, locator string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[locator]; !exists {
		return filemanager.ErrBlobNotFound
	}

	delete(b.objects, locator)
	delete(b.updatedAt, locator)
	return nil
}

// Keys returns the stored locators
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys
}
