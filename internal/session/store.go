package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps server-side session state keyed by session id.
type Store interface {
	Save(ctx context.Context, sid string, identity Identity, expiresAt time.Time) error
	Load(ctx context.Context, sid string) (Identity, error)
	Delete(ctx context.Context, sid string) error
}

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Expired entries are dropped on access.
type MemoryStore struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sid string, identity Identity, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = memoryEntry{identity: identity, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sid string) (Identity, error) {
	s.mu.RLock()
	entry, ok := s.entries[sid]
	s.mu.RUnlock()
	if !ok {
		return Identity{}, ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sid)
		s.mu.Unlock()
		return Identity{}, ErrSessionNotFound
	}
	return entry.identity, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}
