package filemanager

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrUnauthorized indicates a missing, invalid or expired session
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNotFound indicates a record is absent or not visible to the caller
	ErrNotFound = errors.New("Not found")

	// ErrFolderHasNoContent is returned when content is requested for a folder
	ErrFolderHasNoContent = errors.New("A folder doesn't have content")

	// ErrFileNotFound is returned by repositories when a file record does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrUserNotFound is returned by repositories when a user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned by repositories when the email is already taken
	ErrUserExists = errors.New("user already exists")

	// ErrBlobNotFound is returned by blob stores for unknown locators
	ErrBlobNotFound = errors.New("blob not found")

	// ErrSessionNotFound is returned by session stores for unknown or expired tokens
	ErrSessionNotFound = errors.New("session not found")

	// ErrQueueClosed is returned by job queues after Close
	ErrQueueClosed = errors.New("queue closed")
	// ErrQueueFull is returned by bounded job queues that cannot take another job
	ErrQueueFull = errors.New("queue full")
)

// ValidationError is a client input error. Its text is returned verbatim to
// HTTP callers.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Validation errors
const (
	ErrMissingName     ValidationError = "Missing name"
	ErrInvalidType     ValidationError = "Missing type"
	ErrMissingData     ValidationError = "Missing data"
	ErrParentNotFound  ValidationError = "Parent not found"
	ErrParentNotFolder ValidationError = "Parent is not a folder"
	ErrMissingEmail    ValidationError = "Missing email"
	ErrMissingPassword ValidationError = "Missing password"
	ErrAlreadyExists   ValidationError = "Already exist"
)

// JobError terminates processing of a single thumbnail job. Jobs failing with
// a JobError are never retried.
type JobError string

func (e JobError) Error() string { return string(e) }

// Job errors
const (
	ErrJobMissingFileID  JobError = "Missing fileId"
	ErrJobMissingUserID  JobError = "Missing userId"
	ErrJobFileNotFound   JobError = "File not found"
	ErrJobContentMissing JobError = "File not found locally"
)

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// IsJobError reports whether err is a JobError.
func IsJobError(err error) bool {
	var j JobError
	return errors.As(err, &j)
}

// FileError represents a backing-service failure during a file operation
type FileError struct {
	FileID uuid.UUID
	Op     string
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file operation %s failed for file %s: %v", e.Op, e.FileID, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
