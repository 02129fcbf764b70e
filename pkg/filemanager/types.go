package filemanager

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RootID is the ParentID of top level entries.
var RootID = uuid.Nil

// FileKind is the domain type for file entity kinds.
type FileKind string

// File kind constants (typed).
const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// IsValid reports whether k is one of the known kinds.
func (k FileKind) IsValid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// HasContent reports whether entries of this kind carry a blob.
func (k FileKind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// ThumbnailWidths are the derivative widths generated for every image.
var ThumbnailWidths = []int{500, 250, 100}

// PageSize is the fixed number of entries returned by one ListFiles call.
const PageSize = 20

// SessionTTL is the lifetime of a login session.
const SessionTTL = 24 * time.Hour

// File represents a folder, file or image owned by a user.
//
// Folders never have a ContentLocator; files and images always do.
type File struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	Kind           FileKind  `json:"kind"`
	ParentID       uuid.UUID `json:"parent_id"`
	IsPublic       bool      `json:"is_public"`
	ContentLocator string    `json:"content_locator,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsRoot reports whether the file lives at the top level.
func (f *File) IsRoot() bool {
	return f.ParentID == RootID
}

// User is an account able to own files. The password hash is never exposed
// through JSON.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ThumbnailJob asks the worker to generate derivatives for an image. Both
// fields are plain strings so that malformed payloads reach the worker and
// are rejected there.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// DerivativeLocator returns the blob locator of the derivative of locator at
// the given width.
func DerivativeLocator(locator string, width int) string {
	return locator + "_" + strconv.Itoa(width)
}

// IsThumbnailWidth reports whether width is one of ThumbnailWidths.
func IsThumbnailWidth(width int) bool {
	for _, w := range ThumbnailWidths {
		if w == width {
			return true
		}
	}
	return false
}
