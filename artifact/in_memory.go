package artifact

import (
	"slices"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// InMemoryStore is an in-process core.ArtifactStore. Artifacts are cloned on
// save and on retrieval so callers cannot mutate stored values.
//
// Layout: contextID -> artifactID -> artifact
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string]*core.Artifact
	order     map[string][]string
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		artifacts: make(map[string]map[string]*core.Artifact),
		order:     make(map[string][]string),
	}
}

// Save stores (or overwrites) an artifact of the given context.
func (s *InMemoryStore) Save(contextID string, a *core.Artifact) error {
	if a == nil || a.ID == "" {
		return ErrInvalidArtifact
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.artifacts[contextID]
	if !ok {
		m = make(map[string]*core.Artifact)
		s.artifacts[contextID] = m
	}
	if _, exists := m[a.ID]; !exists {
		s.order[contextID] = append(s.order[contextID], a.ID)
	}
	m[a.ID] = a.Clone()
	return nil
}

// Get returns a copy of the stored artifact or ErrNotFound.
func (s *InMemoryStore) Get(contextID, artifactID string) (*core.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[contextID][artifactID]
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

// List returns the artifact ids of the context in the order they were first
// saved. The slice is a snapshot and safe for caller mutation.
func (s *InMemoryStore) List(contextID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := slices.Clone(s.order[contextID])
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(contextID, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.artifacts[contextID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[artifactID]; !ok {
		return ErrNotFound
	}
	delete(m, artifactID)
	s.order[contextID] = slices.DeleteFunc(s.order[contextID], func(id string) bool { return id == artifactID })
	if len(m) == 0 {
		delete(s.artifacts, contextID)
		delete(s.order, contextID)
	}
	return nil
}
