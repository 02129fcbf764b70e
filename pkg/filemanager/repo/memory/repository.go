package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// Repository implements filemanager.Repository using in-memory storage
type Repository struct {
	mu           sync.RWMutex
	files        []*filemanager.File // insertion order
	filesByID    map[uuid.UUID]*filemanager.File
	users        map[uuid.UUID]*filemanager.User
	usersByEmail map[string]uuid.UUID
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		filesByID:    make(map[uuid.UUID]*filemanager.File),
		users:        make(map[uuid.UUID]*filemanager.User),
		usersByEmail: make(map[string]uuid.UUID),
	}
}

// File operations

func (r *Repository) CreateFile(ctx context.Context, file *filemanager.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	fileCopy := *file
	r.files = append(r.files, &fileCopy)
	r.filesByID[file.ID] = &fileCopy

	return nil
}

func (r *Repository) GetFile(ctx context.Context, id uuid.UUID) (*filemanager.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, exists := r.filesByID[id]
	if !exists {
		return nil, filemanager.ErrFileNotFound
	}
	// Return a copy to prevent external modifications
	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) GetOwnedFile(ctx context.Context, ownerID, id uuid.UUID) (*filemanager.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, exists := r.filesByID[id]
	if !exists || file.OwnerID != ownerID {
		return nil, filemanager.ErrFileNotFound
	}
	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) ListFiles(ctx context.Context, ownerID, parentID uuid.UUID, offset, limit int) ([]*filemanager.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*filemanager.File{}
	skipped := 0
	for _, file := range r.files {
		if file.OwnerID != ownerID || file.ParentID != parentID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}
		fileCopy := *file
		result = append(result, &fileCopy)
	}

	return result, nil
}

func (r *Repository) SetFileVisibility(ctx context.Context, ownerID, id uuid.UUID, isPublic bool) (*filemanager.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, exists := r.filesByID[id]
	if !exists || file.OwnerID != ownerID {
		return nil, filemanager.ErrFileNotFound
	}
	file.IsPublic = isPublic
	file.UpdatedAt = time.Now().UTC()

	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) CountFiles(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.files)), nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *filemanager.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.usersByEmail[key]; exists {
		return filemanager.ErrUserExists
	}

	userCopy := *user
	r.users[user.ID] = &userCopy
	r.usersByEmail[key] = user.ID

	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*filemanager.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, filemanager.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*filemanager.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usersByEmail[strings.ToLower(email)]
	if !exists {
		return nil, filemanager.ErrUserNotFound
	}
	userCopy := *r.users[id]
	return &userCopy, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// Ping always succeeds.
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}
