package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-files/pkg/filemanager"
)

type entry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// Store is an in-memory filemanager.SessionStore. Expired entries are
// treated as absent and dropped lazily.
type Store struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// New creates a session store using filemanager.SessionTTL
func New() *Store {
	return NewWithClock(filemanager.SessionTTL, time.Now)
}

// NewWithClock creates a session store with a custom ttl and clock
func NewWithClock(ttl time.Duration, now func() time.Time) *Store {
	return &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      now,
	}
}

func (s *Store) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = entry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

func (s *Store) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(token)
	if !ok {
		return uuid.Nil, filemanager.ErrSessionNotFound
	}
	return e.userID, nil
}

func (s *Store) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupLocked(token); !ok {
		return filemanager.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) lookupLocked(token string) (entry, bool) {
	e, ok := s.sessions[token]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, token)
		return entry{}, false
	}
	return e, true
}
