package filemanager

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// AccessControl resolves session tokens and decides read and write access to
// file entities.
type AccessControl struct {
	sessions SessionStore
}

// NewAccessControl creates an AccessControl backed by sessions.
func NewAccessControl(sessions SessionStore) *AccessControl {
	return &AccessControl{sessions: sessions}
}

// Authenticate returns the user owning token, or ErrUnauthorized.
func (a *AccessControl) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}
	userID, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return uuid.Nil, ErrUnauthorized
		}
		return uuid.Nil, err
	}
	return userID, nil
}

// AuthorizeRead grants access to public files and to the owner.
func (a *AccessControl) AuthorizeRead(userID uuid.UUID, file *File) bool {
	if file == nil {
		return false
	}
	return file.IsPublic || (userID != uuid.Nil && file.OwnerID == userID)
}

// AuthorizeWrite grants access to the owner only.
func (a *AccessControl) AuthorizeWrite(userID uuid.UUID, file *File) bool {
	if file == nil || userID == uuid.Nil {
		return false
	}
	return file.OwnerID == userID
}
