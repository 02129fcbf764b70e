package filemanager

import "github.com/google/uuid"

// Request DTOs

// CreateFileRequest contains parameters for creating a file entity.
//
// Content holds the already decoded bytes; transport encodings are handled by
// the caller.
type CreateFileRequest struct {
	Name     string
	Kind     FileKind
	ParentID uuid.UUID
	IsPublic bool
	Content  []byte
}

// Validate checks the fields that do not depend on stored state, in the
// order MissingName, InvalidType, MissingData.
func (r CreateFileRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if !r.Kind.IsValid() {
		return ErrInvalidType
	}
	if r.Kind.HasContent() && len(r.Content) == 0 {
		return ErrMissingData
	}
	return nil
}

// ListFilesRequest contains parameters for listing a user's files
type ListFilesRequest struct {
	ParentID uuid.UUID
	Page     int
}

// Offset returns the number of records skipped for the request's page.
func (r ListFilesRequest) Offset() int {
	if r.Page < 0 {
		return 0
	}
	return r.Page * PageSize
}
