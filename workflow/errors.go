package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownNode is returned when an operation names a node id that is
	// not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrDuplicateNode is returned when a node id is added twice.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrSelfLoop is returned for an edge from a node to itself.
	ErrSelfLoop = errors.New("self loop")
	// ErrGraphNotAcyclic is returned when ordering finds a cycle.
	ErrGraphNotAcyclic = errors.New("graph is not acyclic")
	// ErrResolutionFailed is returned in strict mode when no agent serves a node.
	ErrResolutionFailed = errors.New("agent resolution failed")
	// ErrNodeNotBound is returned when a node runs without discovery or invoker.
	ErrNodeNotBound = errors.New("node has no discovery or invoker")
)

// GraphError wraps graph validation failures.
type GraphError struct {
	Kind error
	Msg  string
	// Cycle is the witness path for ErrGraphNotAcyclic, first id repeated last.
	Cycle []string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func unknownNode(id string) error {
	return &GraphError{Kind: ErrUnknownNode, Msg: id}
}

func cycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &GraphError{Kind: ErrGraphNotAcyclic, Msg: msg, Cycle: path}
}
