package filemanager

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the file operations available to authenticated users
type Service interface {
	// CreateFile validates req, stores its content and persists the entity.
	// Images additionally get a thumbnail job queued.
	CreateFile(ctx context.Context, userID uuid.UUID, req CreateFileRequest) (*File, error)
	GetFile(ctx context.Context, userID, fileID uuid.UUID) (*File, error)
	ListFiles(ctx context.Context, userID uuid.UUID, req ListFilesRequest) ([]*File, error)
	SetVisibility(ctx context.Context, userID, fileID uuid.UUID, isPublic bool) (*File, error)

	// OpenContent opens the original content (width 0) or one of the
	// thumbnail derivatives. userID may be uuid.Nil for anonymous callers.
	// The caller closes Content.Body.
	OpenContent(ctx context.Context, userID, fileID uuid.UUID, width int) (*Content, error)

	Stats(ctx context.Context) (*Stats, error)
}

// Stats reports record counts
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// Content is an opened blob together with the record it belongs to.
type Content struct {
	File *File
	Meta *ObjectMeta
	Body io.ReadCloser
}
