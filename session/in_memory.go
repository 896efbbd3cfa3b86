package session

import (
	"slices"
	"sync"
)

// InMemoryStore is a volatile Store keeping sessions in a process local map.
// It is safe for concurrent access and suited for the CLI, tests and single
// process servers.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

// Get returns the session of contextID or ErrNotFound.
func (s *InMemoryStore) Get(contextID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[contextID]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// GetOrCreate returns the session of contextID, creating it when missing.
// The boolean reports whether the session was created.
func (s *InMemoryStore) GetOrCreate(contextID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[contextID]; ok {
		return sess, false
	}
	sess := New(contextID)
	s.sessions[contextID] = sess
	return sess, true
}

// Delete removes a session or returns ErrNotFound.
func (s *InMemoryStore) Delete(contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[contextID]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, contextID)
	return nil
}

// List returns the ids of all sessions, sorted.
func (s *InMemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
