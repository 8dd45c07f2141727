package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	slog.Info("Initialized in-memory session store")
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// Create starts a session
func (s *MemoryStore) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := newID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.sessions[id] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return id, nil
}

// Get returns the user id of a live session
func (s *MemoryStore) Get(ctx context.Context, id string) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(entry.expiresAt) {
		return uuid.Nil, ErrNotFound
	}
	return entry.userID, nil
}

// Delete ends a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close drops all sessions
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]memoryEntry)
	return nil
}

// sweep drops expired sessions. Caller must hold the write lock.
func (s *MemoryStore) sweep() {
	now := s.now()
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
