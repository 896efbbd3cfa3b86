package core

import (
	"errors"
	"fmt"
)

// ErrAgentNotFound is returned by Discovery when no agent matches.
var ErrAgentNotFound = errors.New("agent not found")

// InvocationError reports a failed call to a remote agent.
type InvocationError struct {
	Agent string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke agent %s: %v", e.Agent, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// NewInvocationError wraps err for the named agent. A nil err yields nil.
func NewInvocationError(agent string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InvocationError
	if errors.As(err, &ie) {
		return err
	}
	return &InvocationError{Agent: agent, Err: err}
}
