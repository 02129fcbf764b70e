// Package thumbnail consumes thumbnail jobs and writes resized derivatives of
// uploaded images next to the original content.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/tendant/simple-files/pkg/filemanager"
	"golang.org/x/sync/errgroup"
)

// Generator turns one ThumbnailJob into the set of derivatives.
type Generator struct {
	repository  filemanager.Repository
	blobStore   filemanager.BlobStore
	backendName string
	widths      []int
	logger      *slog.Logger
}

// NewGenerator creates a Generator producing filemanager.ThumbnailWidths.
// backendName labels storage errors, as filemanager.WithBlobStore does.
func NewGenerator(repo filemanager.Repository, backendName string, store filemanager.BlobStore, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if backendName == "" {
		backendName = "default"
	}
	return &Generator{
		repository:  repo,
		blobStore:   store,
		backendName: backendName,
		widths:      filemanager.ThumbnailWidths,
		logger:      logger,
	}
}

// Process validates job against the current file state and writes one
// derivative per width. Widths are written independently: a failure for one
// width leaves the others in place and is reported once all have finished.
func (g *Generator) Process(ctx context.Context, job filemanager.ThumbnailJob) error {
	if job.FileID == "" {
		return filemanager.ErrJobMissingFileID
	}
	if job.UserID == "" {
		return filemanager.ErrJobMissingUserID
	}

	fileID, err := uuid.Parse(job.FileID)
	if err != nil {
		return filemanager.ErrJobFileNotFound
	}
	userID, err := uuid.Parse(job.UserID)
	if err != nil {
		return filemanager.ErrJobFileNotFound
	}

	file, err := g.repository.GetOwnedFile(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, filemanager.ErrFileNotFound) {
			return filemanager.ErrJobFileNotFound
		}
		return fmt.Errorf("lookup file %s: %w", fileID, err)
	}
	if file.ContentLocator == "" {
		return filemanager.ErrJobContentMissing
	}

	src, format, err := g.load(ctx, file.ContentLocator)
	if err != nil {
		return err
	}

	var eg errgroup.Group
	for _, width := range g.widths {
		width := width
		eg.Go(func() error {
			return g.writeDerivative(ctx, file, src, format, width)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g.logger.InfoContext(ctx, "Thumbnails generated", "file_id", file.ID.String(), "widths", g.widths)
	return nil
}

func (g *Generator) load(ctx context.Context, locator string) (image.Image, string, error) {
	rc, err := g.blobStore.Download(ctx, locator)
	if err != nil {
		if errors.Is(err, filemanager.ErrBlobNotFound) {
			return nil, "", filemanager.ErrJobContentMissing
		}
		return nil, "", fmt.Errorf("read content %s: %w", locator, err)
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, "", fmt.Errorf("decode image %s: %w", locator, err)
	}
	return img, format, nil
}

func (g *Generator) writeDerivative(ctx context.Context, file *filemanager.File, src image.Image, format string, width int) error {
	var buf bytes.Buffer
	if err := Resize(&buf, src, format, width); err != nil {
		return fmt.Errorf("resize %s to %d: %w", file.ID, width, err)
	}

	locator := filemanager.DerivativeLocator(file.ContentLocator, width)
	if err := g.blobStore.Upload(ctx, locator, &buf); err != nil {
		return &filemanager.StorageError{
			Backend: g.backendName,
			Key:     locator,
			Op:      "upload_derivative",
			Err:     err,
		}
	}
	return nil
}

// Resize scales src to width, keeping the aspect ratio, and encodes the
// result. PNG sources stay PNG; everything else is written as JPEG.
func Resize(w io.Writer, src image.Image, format string, width int) error {
	if width <= 0 {
		return fmt.Errorf("invalid width %d", width)
	}
	thumb := resize.Resize(uint(width), 0, src, resize.Lanczos3)

	if format == "png" {
		return png.Encode(w, thumb)
	}
	return jpeg.Encode(w, thumb, &jpeg.Options{Quality: 85})
}
