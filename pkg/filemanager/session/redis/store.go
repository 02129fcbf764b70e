// Package redis stores login sessions in Redis with a server-side TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/tendant/simple-files/pkg/filemanager"
)

const keyPrefix = "auth_"

// Store implements filemanager.SessionStore on top of go-redis.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
}

// New creates a Store using filemanager.SessionTTL.
func New(client *goredis.Client) *Store {
	return &Store{client: client, ttl: filemanager.SessionTTL}
}

func key(token string) string {
	return keyPrefix + token
}

func (s *Store) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, key(token), userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *Store) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, filemanager.ErrSessionNotFound
		}
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, filemanager.ErrSessionNotFound
	}
	return userID, nil
}

func (s *Store) Revoke(ctx context.Context, token string) error {
	n, err := s.client.Del(ctx, key(token)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return filemanager.ErrSessionNotFound
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
