package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session: not found")

// Store persists principals across requests. A login replaces any previous
// state unconditionally; a logout deletes it. There is exactly one principal
// per session id.
type Store interface {
	Create(ctx context.Context, p Principal) (string, error)
	Get(ctx context.Context, sessionID string) (Principal, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory. Sessions survive until
// logout or process restart, matching the tab-lifetime semantics of the
// portal.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Principal
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Principal)}
}

func (s *MemoryStore) Create(_ context.Context, p Principal) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = p
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Principal, error) {
	s.mu.RLock()
	p, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Principal{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
