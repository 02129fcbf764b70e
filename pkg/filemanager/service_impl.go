package filemanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository  Repository
	blobStore   BlobStore
	backendName string
	queue       JobQueue
	access      *AccessControl
	logger      *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store used for file content
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		s.backendName = name
		s.blobStore = store
	}
}

// WithJobQueue sets the queue receiving thumbnail jobs
func WithJobQueue(queue JobQueue) Option {
	return func(s *service) {
		s.queue = queue
	}
}

// WithAccessControl sets the access control used for read and write checks
func WithAccessControl(access *AccessControl) Option {
	return func(s *service) {
		s.access = access
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.queue == nil {
		s.queue = NewNoopJobQueue()
	}
	if s.access == nil {
		// only the authorization checks are used by the service
		s.access = NewAccessControl(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.backendName == "" {
		s.backendName = "default"
	}

	return s, nil
}

func (s *service) CreateFile(ctx context.Context, userID uuid.UUID, req CreateFileRequest) (*File, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Parents must already exist and ParentID never changes afterwards, so the
	// hierarchy cannot form a cycle. Folders of other users count as absent.
	if req.ParentID != RootID {
		parent, err := s.repository.GetOwnedFile(ctx, userID, req.ParentID)
		if err != nil {
			if errors.Is(err, ErrFileNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, &FileError{FileID: req.ParentID, Op: "get_parent", Err: err}
		}
		if parent.Kind != KindFolder {
			return nil, ErrParentNotFolder
		}
	}

	now := time.Now().UTC()
	file := &File{
		ID:        uuid.New(),
		OwnerID:   userID,
		Name:      req.Name,
		Kind:      req.Kind,
		ParentID:  req.ParentID,
		IsPublic:  req.IsPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Content goes first so that a persisted record always resolves
	if req.Kind.HasContent() {
		locator := uuid.NewString()
		if err := s.blobStore.Upload(ctx, locator, bytes.NewReader(req.Content)); err != nil {
			return nil, &StorageError{
				Backend: s.backendName,
				Key:     locator,
				Op:      "upload",
				Err:     err,
			}
		}
		file.ContentLocator = locator
	}

	if err := s.repository.CreateFile(ctx, file); err != nil {
		if file.ContentLocator != "" {
			if derr := s.blobStore.Delete(ctx, file.ContentLocator); derr != nil {
				s.logger.WarnContext(ctx, "Failed to remove orphaned content", "locator", file.ContentLocator, "error", derr)
			}
		}
		return nil, &FileError{FileID: file.ID, Op: "create", Err: err}
	}

	if file.Kind == KindImage {
		job := ThumbnailJob{UserID: userID.String(), FileID: file.ID.String()}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			// thumbnails are best effort, the record stays
			s.logger.WarnContext(ctx, "Failed to enqueue thumbnail job", "file_id", file.ID.String(), "error", err)
		}
	}

	s.logger.InfoContext(ctx, "File created", "file_id", file.ID.String(), "kind", string(file.Kind))
	return file, nil
}

func (s *service) GetFile(ctx context.Context, userID, fileID uuid.UUID) (*File, error) {
	file, err := s.repository.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, &FileError{FileID: fileID, Op: "get", Err: err}
	}
	if !s.access.AuthorizeRead(userID, file) {
		return nil, ErrNotFound
	}
	return file, nil
}

func (s *service) ListFiles(ctx context.Context, userID uuid.UUID, req ListFilesRequest) ([]*File, error) {
	files, err := s.repository.ListFiles(ctx, userID, req.ParentID, req.Offset(), PageSize)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []*File{}
	}
	return files, nil
}

func (s *service) SetVisibility(ctx context.Context, userID, fileID uuid.UUID, isPublic bool) (*File, error) {
	file, err := s.repository.GetOwnedFile(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, &FileError{FileID: fileID, Op: "get", Err: err}
	}
	if !s.access.AuthorizeWrite(userID, file) {
		return nil, ErrNotFound
	}
	if file.IsPublic == isPublic {
		return file, nil
	}

	updated, err := s.repository.SetFileVisibility(ctx, userID, fileID, isPublic)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, &FileError{FileID: fileID, Op: "set_visibility", Err: err}
	}
	return updated, nil
}

func (s *service) OpenContent(ctx context.Context, userID, fileID uuid.UUID, width int) (*Content, error) {
	file, err := s.GetFile(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	if !file.Kind.HasContent() {
		return nil, ErrFolderHasNoContent
	}

	locator := file.ContentLocator
	if width != 0 {
		if !IsThumbnailWidth(width) {
			return nil, ErrNotFound
		}
		locator = DerivativeLocator(locator, width)
	}

	meta, err := s.blobStore.GetObjectMeta(ctx, locator)
	if err != nil {
		return nil, s.contentError(locator, "stat", err)
	}
	rc, err := s.blobStore.Download(ctx, locator)
	if err != nil {
		return nil, s.contentError(locator, "download", err)
	}
	return &Content{File: file, Meta: meta, Body: rc}, nil
}

func (s *service) contentError(locator, op string, err error) error {
	if errors.Is(err, ErrBlobNotFound) {
		return ErrNotFound
	}
	return &StorageError{
		Backend: s.backendName,
		Key:     locator,
		Op:      op,
		Err:     err,
	}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repository.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	files, err := s.repository.CountFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
