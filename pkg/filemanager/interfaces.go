package filemanager

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for file and user persistence.
//
// Writes must be atomic per record: SetFileVisibility never exposes a
// partially applied update to concurrent readers.
type Repository interface {
	// File operations
	CreateFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, id uuid.UUID) (*File, error)
	// GetOwnedFile returns the file only when it belongs to ownerID
	GetOwnedFile(ctx context.Context, ownerID, id uuid.UUID) (*File, error)
	// ListFiles returns ownerID's files under parentID in insertion order
	ListFiles(ctx context.Context, ownerID, parentID uuid.UUID, offset, limit int) ([]*File, error)
	SetFileVisibility(ctx context.Context, ownerID, id uuid.UUID, isPublic bool) (*File, error)
	CountFiles(ctx context.Context) (int64, error)

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// BlobStore defines the interface for raw content storage.
type BlobStore interface {
	// Upload writes content at locator, replacing anything stored there
	Upload(ctx context.Context, locator string, reader io.Reader) error

	// Download opens the content at locator; ErrBlobNotFound if absent
	Download(ctx context.Context, locator string) (io.ReadCloser, error)

	// Delete removes the content at locator
	Delete(ctx context.Context, locator string) error

	// GetObjectMeta retrieves metadata for the content at locator
	GetObjectMeta(ctx context.Context, locator string) (*ObjectMeta, error)
}

// SessionStore maps opaque tokens to user identities with expiry.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// JobQueue carries thumbnail jobs from the file service to the workers.
type JobQueue interface {
	Enqueue(ctx context.Context, job ThumbnailJob) error
	// Dequeue blocks until a job is available, ctx is done or the queue is closed
	Dequeue(ctx context.Context) (ThumbnailJob, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ObjectMeta contains metadata about stored content
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}
