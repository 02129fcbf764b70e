package filemanager_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-files/internal/password"
	"github.com/tendant/simple-files/pkg/filemanager"
	"github.com/tendant/simple-files/pkg/filemanager/repo/memory"
	sessionmemory "github.com/tendant/simple-files/pkg/filemanager/session/memory"
)

func setupAccounts(t *testing.T) (*filemanager.Accounts, *filemanager.AccessControl) {
	t.Helper()
	sessions := sessionmemory.New()
	accounts, err := filemanager.NewAccounts(memory.New(), sessions, password.New(bcrypt.MinCost), nil)
	require.NoError(t, err)
	return accounts, filemanager.NewAccessControl(sessions)
}

func TestNewAccounts_RequiresDependencies(t *testing.T) {
	_, err := filemanager.NewAccounts(nil, sessionmemory.New(), password.New(0), nil)
	assert.Error(t, err)
	_, err = filemanager.NewAccounts(memory.New(), nil, password.New(0), nil)
	assert.Error(t, err)
	_, err = filemanager.NewAccounts(memory.New(), sessionmemory.New(), nil, nil)
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	accounts, _ := setupAccounts(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.NotEqual(t, uuid.Nil, user.ID)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"missing email", "", "pw", filemanager.ErrMissingEmail},
		{"blank email", "   ", "pw", filemanager.ErrMissingEmail},
		{"missing email before password", "", "", filemanager.ErrMissingEmail},
		{"missing password", "b@x.com", "", filemanager.ErrMissingPassword},
		{"duplicate", "a@x.com", "other", filemanager.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.Register(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConnectDisconnect(t *testing.T) {
	accounts, access := setupAccounts(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = accounts.Connect(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, filemanager.ErrUnauthorized)
	_, err = accounts.Connect(ctx, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, filemanager.ErrUnauthorized)
	_, err = accounts.Connect(ctx, "", "")
	assert.ErrorIs(t, err, filemanager.ErrUnauthorized)

	token, err := accounts.Connect(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := access.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	me, err := accounts.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	require.NoError(t, accounts.Disconnect(ctx, token))
	_, err = access.Authenticate(ctx, token)
	assert.ErrorIs(t, err, filemanager.ErrUnauthorized)

	assert.ErrorIs(t, accounts.Disconnect(ctx, token), filemanager.ErrUnauthorized)
	assert.ErrorIs(t, accounts.Disconnect(ctx, ""), filemanager.ErrUnauthorized)
}

func TestMe_UnknownUser(t *testing.T) {
	accounts, _ := setupAccounts(t)
	_, err := accounts.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, filemanager.ErrUnauthorized)
}

func TestConnect_NormalizesEmail(t *testing.T) {
	accounts, access := setupAccounts(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	for _, email := range []string{" a@x.com", "a@x.com\t", "A@X.com"} {
		t.Run(email, func(t *testing.T) {
			token, err := accounts.Connect(ctx, email, "pw1")
			require.NoError(t, err)

			userID, err := access.Authenticate(ctx, token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, userID)
		})
	}

	_, err = accounts.Connect(ctx, "   ", "pw1")
	assert.ErrorIs(t, err, filemanager.ErrUnauthorized)
}
