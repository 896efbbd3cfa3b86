package core

import "fmt"

// Status is the lifecycle state shared by task graphs and task nodes.
// The set is closed; switch statements over Status must handle every value.
type Status int

const (
	// StatusInitialized is the state of a graph that has never run.
	StatusInitialized Status = iota
	// StatusReady is the state of a node that has not started.
	StatusReady
	// StatusRunning is the state of an executing graph or node.
	StatusRunning
	// StatusPaused marks a graph or node blocked on user input.
	StatusPaused
	// StatusCompleted marks a graph or node that finished without pausing.
	StatusCompleted
)

// String returns the upper case name of the status.
func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "INITIALIZED"
	case StatusReady:
		return "READY"
	case StatusRunning:
		return "RUNNING"
	case StatusPaused:
		return "PAUSED"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Valid reports whether s is one of the five defined states.
func (s Status) Valid() bool {
	switch s {
	case StatusInitialized, StatusReady, StatusRunning, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further progress happens without an explicit
// new run. Paused counts as terminal for a single run.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaused, StatusCompleted:
		return true
	case StatusInitialized, StatusReady, StatusRunning:
		return false
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}
