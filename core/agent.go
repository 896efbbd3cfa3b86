package core

import (
	"context"
	"iter"
)

// AgentDescriptor is the resolved identity of a remote agent: where to reach
// it and what it claims to do.
type AgentDescriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	Version     string   `json:"version,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Streaming   bool     `json:"streaming"`
	// URI is the resource identifier of the card the descriptor was built
	// from, e.g. resource://agent_cards/planner_agent.
	URI string `json:"uri,omitempty"`
}

// Discovery resolves task descriptions to agents. Implementations return
// ErrAgentNotFound (possibly wrapped) when nothing matches.
type Discovery interface {
	// Resolve finds the best agent for a free-text task description.
	Resolve(ctx context.Context, task string) (*AgentDescriptor, error)
	// ResolveWellKnown looks up an agent by its well-known name, e.g.
	// "planner_agent".
	ResolveWellKnown(ctx context.Context, name string) (*AgentDescriptor, error)
}

// Invoker opens one streaming call to an agent. The returned sequence is
// single-pass; stopping iteration early releases the underlying stream.
// Transport failures are yielded as *InvocationError.
type Invoker interface {
	Invoke(ctx context.Context, agent *AgentDescriptor, msg Message) iter.Seq2[RemoteEvent, error]
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, agent *AgentDescriptor, msg Message) iter.Seq2[RemoteEvent, error]

// Invoke calls f(ctx, agent, msg).
func (f InvokerFunc) Invoke(ctx context.Context, agent *AgentDescriptor, msg Message) iter.Seq2[RemoteEvent, error] {
	return f(ctx, agent, msg)
}
