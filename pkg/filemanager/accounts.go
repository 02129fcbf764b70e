package filemanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Accounts registers users and manages their login sessions.
type Accounts struct {
	repository Repository
	sessions   SessionStore
	hasher     PasswordHasher
	logger     *slog.Logger
}

// NewAccounts creates an Accounts service.
func NewAccounts(repo Repository, sessions SessionStore, hasher PasswordHasher, logger *slog.Logger) (*Accounts, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Accounts{repository: repo, sessions: sessions, hasher: hasher, logger: logger}, nil
}

// Register creates a new user.
func (a *Accounts) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := a.repository.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.repository.CreateUser(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, ErrUserExists) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	a.logger.InfoContext(ctx, "User registered", "user_id", user.ID.String())
	return user, nil
}

// Connect verifies the credentials and opens a session, returning its token.
func (a *Accounts) Connect(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}
	user, err := a.repository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !a.hasher.Compare(user.PasswordHash, password) {
		return "", ErrUnauthorized
	}

	token, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Disconnect revokes the session behind token.
func (a *Accounts) Disconnect(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	if err := a.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Me returns the user behind an authenticated request.
func (a *Accounts) Me(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := a.repository.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
