package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-files/pkg/filemanager"
)

// Backend is a filesystem implementation of the filemanager.BlobStore
// interface. Every locator is a plain file directly under BaseDir.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing files
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// BaseDir returns the root directory of the backend
func (b *Backend) BaseDir() string {
	return b.baseDir
}

// path maps a locator to its file, rejecting anything that would escape baseDir
func (b *Backend) path(locator string) (string, error) {
	if locator == "" || locator == "." || locator == ".." ||
		strings.ContainsAny(locator, `/\`) || strings.Contains(locator, "..") {
		return "", fmt.Errorf("invalid locator %q", locator)
	}
	return filepath.Join(b.baseDir, locator), nil
}

// GetObjectMeta retrieves metadata for an object in the filesystem
func (b *Backend) GetObjectMeta(ctx context.Context, locator string) (*filemanager.ObjectMeta, error) {
	filePath, err := b.path(locator)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, filemanager.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	// Detect content type
	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &filemanager.ObjectMeta{
		Key:         locator,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}

// Upload writes content to a temporary file and renames it over the locator,
// so readers never observe a partially written blob.
func (b *Backend) Upload(ctx context.Context, locator string, reader io.Reader) error {
	filePath, err := b.path(locator)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.baseDir, "."+locator+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// Download opens content directly from the filesystem
func (b *Backend) Download(ctx context.Context, locator string) (io.ReadCloser, error) {
	filePath, err := b.path(locator)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, filemanager.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete deletes content from the filesystem
func (b *Backend) Delete(ctx context.Context, locator string) error {
	filePath, err := b.path(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return filemanager.ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
