package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/filemanager"
	"github.com/tendant/simple-files/pkg/filemanager/repo/memory"
)

func newFile(owner, parent uuid.UUID, name string) *filemanager.File {
	now := time.Now().UTC()
	return &filemanager.File{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      name,
		Kind:      filemanager.KindFolder,
		ParentID:  parent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryRepository_FileOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	owner := uuid.New()

	t.Run("CreateAndGet", func(t *testing.T) {
		file := newFile(owner, filemanager.RootID, "docs")
		require.NoError(t, repo.CreateFile(ctx, file))

		got, err := repo.GetFile(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, file.ID, got.ID)
		assert.Equal(t, "docs", got.Name)

		// Mutating the returned copy must not leak into the store
		got.Name = "changed"
		again, err := repo.GetFile(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, "docs", again.Name)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetFile(ctx, uuid.New())
		assert.ErrorIs(t, err, filemanager.ErrFileNotFound)
	})

	t.Run("GetOwnedFileChecksOwner", func(t *testing.T) {
		file := newFile(owner, filemanager.RootID, "mine")
		require.NoError(t, repo.CreateFile(ctx, file))

		_, err := repo.GetOwnedFile(ctx, owner, file.ID)
		assert.NoError(t, err)

		_, err = repo.GetOwnedFile(ctx, uuid.New(), file.ID)
		assert.ErrorIs(t, err, filemanager.ErrFileNotFound)
	})

	t.Run("SetFileVisibility", func(t *testing.T) {
		file := newFile(owner, filemanager.RootID, "to-publish")
		require.NoError(t, repo.CreateFile(ctx, file))

		updated, err := repo.SetFileVisibility(ctx, owner, file.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsPublic)

		_, err = repo.SetFileVisibility(ctx, uuid.New(), file.ID, false)
		assert.ErrorIs(t, err, filemanager.ErrFileNotFound)

		got, err := repo.GetFile(ctx, file.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPublic)
	})
}

func TestMemoryRepository_ListFilesPagination(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()
	folder := newFile(owner, filemanager.RootID, "folder")
	require.NoError(t, repo.CreateFile(ctx, folder))

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.CreateFile(ctx, newFile(owner, folder.ID, fmt.Sprintf("f%02d", i))))
		// noise from another owner and another parent
		require.NoError(t, repo.CreateFile(ctx, newFile(other, folder.ID, "x")))
		require.NoError(t, repo.CreateFile(ctx, newFile(owner, filemanager.RootID, "y")))
	}

	first, err := repo.ListFiles(ctx, owner, folder.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, first, 20)
	for i, f := range first {
		assert.Equal(t, fmt.Sprintf("f%02d", i), f.Name)
	}

	second, err := repo.ListFiles(ctx, owner, folder.ID, 20, 20)
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, "f20", second[0].Name)

	empty, err := repo.ListFiles(ctx, owner, folder.ID, 40, 20)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryRepository_UserOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	user := &filemanager.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateUser(ctx, user))

	err := repo.CreateUser(ctx, &filemanager.User{ID: uuid.New(), Email: "A@x.com"})
	assert.ErrorIs(t, err, filemanager.ErrUserExists)

	got, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = repo.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, filemanager.ErrUserNotFound)

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryRepository_ConcurrentVisibilityToggles(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	owner := uuid.New()
	file := newFile(owner, filemanager.RootID, "racy")
	require.NoError(t, repo.CreateFile(ctx, file))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(public bool) {
			defer wg.Done()
			_, err := repo.SetFileVisibility(ctx, owner, file.ID, public)
			assert.NoError(t, err)
		}(i%2 == 0)
	}
	wg.Wait()

	got, err := repo.GetFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "racy", got.Name)
}
