// Package localagent runs agents inside the process and routes invocations
// between them and a remote transport.
package localagent

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// Scheme prefixes the URL of every in-process agent.
const Scheme = "local://"

// ErrUnknownAgent is returned when a local:// URL names no registered agent.
var ErrUnknownAgent = errors.New("unknown local agent")

// Agent is an agent executed in-process. Run must honour the same contract
// as core.Invoker: a single-pass sequence that stops when the consumer does.
type Agent interface {
	Name() string
	Run(ctx context.Context, msg core.Message) iter.Seq2[core.RemoteEvent, error]
}

// URL returns the local:// URL of the named agent.
func URL(name string) string { return Scheme + name }

type funcAgent struct {
	name string
	fn   func(ctx context.Context, msg core.Message) iter.Seq2[core.RemoteEvent, error]
}

func (a funcAgent) Name() string { return a.name }

func (a funcAgent) Run(ctx context.Context, msg core.Message) iter.Seq2[core.RemoteEvent, error] {
	return a.fn(ctx, msg)
}

// NewFunc creates an Agent from a function.
func NewFunc(name string, fn func(ctx context.Context, msg core.Message) iter.Seq2[core.RemoteEvent, error]) Agent {
	return funcAgent{name: name, fn: fn}
}

// Router is a core.Invoker that dispatches local:// descriptors to
// registered agents and everything else to the fallback invoker.
type Router struct {
	fallback core.Invoker

	mu     sync.RWMutex
	agents map[string]Agent
}

// NewRouter creates a router. fallback may be nil when only local agents
// are used.
func NewRouter(fallback core.Invoker, agents ...Agent) *Router {
	r := &Router{fallback: fallback, agents: make(map[string]Agent)}
	for _, a := range agents {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an agent.
func (r *Router) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.Name()] = a
}

// Agent returns the registered agent with the given name.
func (r *Router) Agent(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Invoke implements core.Invoker.
func (r *Router) Invoke(ctx context.Context, agent *core.AgentDescriptor, msg core.Message) iter.Seq2[core.RemoteEvent, error] {
	if agent == nil {
		return failed("", errors.New("nil agent descriptor"))
	}
	name, ok := strings.CutPrefix(agent.URL, Scheme)
	if !ok {
		if r.fallback == nil {
			return failed(agent.Name, fmt.Errorf("no transport for %s", agent.URL))
		}
		return r.fallback.Invoke(ctx, agent, msg)
	}
	name = strings.TrimSuffix(name, "/")
	a, ok := r.Agent(name)
	if !ok {
		return failed(agent.Name, fmt.Errorf("%w: %s", ErrUnknownAgent, name))
	}
	return func(yield func(core.RemoteEvent, error) bool) {
		for ev, err := range a.Run(ctx, msg) {
			if err != nil {
				yield(nil, core.NewInvocationError(agent.Name, err))
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func failed(agent string, err error) iter.Seq2[core.RemoteEvent, error] {
	return func(yield func(core.RemoteEvent, error) bool) {
		yield(nil, &core.InvocationError{Agent: agent, Err: err})
	}
}
