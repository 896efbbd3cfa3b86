package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/workflow"
)

// ErrNotFound is returned when no session exists for a context id.
var ErrNotFound = errors.New("session not found")

// Session is the workflow state of one conversation context. The graph is
// shared, not copied; callers must not run it concurrently.
type Session struct {
	ID        string
	Query     string
	CreatedAt time.Time

	mu        sync.RWMutex
	graph     *workflow.Graph
	results   []*core.Artifact
	updatedAt time.Time
}

// New creates a session for contextID.
func New(contextID string) *Session {
	now := time.Now()
	return &Session{ID: contextID, CreatedAt: now, updatedAt: now}
}

// Graph returns the graph of the session, or nil before planning.
func (s *Session) Graph() *workflow.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// SetGraph replaces the graph of the session and drops the results of the
// previous one.
func (s *Session) SetGraph(g *workflow.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	s.results = nil
	s.updatedAt = time.Now()
}

// AddResult appends a completed artifact.
func (s *Session) AddResult(a *core.Artifact) {
	if a == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, a)
	s.updatedAt = time.Now()
}

// Results returns the collected artifacts in completion order.
func (s *Session) Results() []*core.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results)
}

// Paused reports whether the session's graph waits for user input.
func (s *Session) Paused() bool {
	g := s.Graph()
	return g != nil && g.State() == core.StatusPaused
}

// UpdatedAt returns the time of the last change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Store persists sessions by context id.
type Store interface {
	Get(contextID string) (*Session, error)
	GetOrCreate(contextID string) (*Session, bool)
	Delete(contextID string) error
	List() []string
}
