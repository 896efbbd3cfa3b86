package testutil

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// Script is one scripted response stream. Err, when set, is yielded after
// all Events.
type Script struct {
	Events []core.RemoteEvent
	Err    error
}

// Call records one invocation of a ScriptedInvoker.
type Call struct {
	Agent   string
	Message core.Message
}

// ScriptedInvoker replays scripted streams per agent name. Each call consumes
// the next script of the agent; the last script repeats once the queue is
// exhausted. Agents without scripts produce an empty stream.
type ScriptedInvoker struct {
	mu       sync.Mutex
	scripts  map[string][]Script
	calls    []Call
	released int
}

// NewScriptedInvoker creates an invoker without scripts.
func NewScriptedInvoker() *ScriptedInvoker {
	return &ScriptedInvoker{scripts: map[string][]Script{}}
}

// On queues a stream of events for agent (chainable).
func (s *ScriptedInvoker) On(agent string, events ...core.RemoteEvent) *ScriptedInvoker {
	return s.OnScript(agent, Script{Events: events})
}

// OnScript queues a full script for agent (chainable).
func (s *ScriptedInvoker) OnScript(agent string, script Script) *ScriptedInvoker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[agent] = append(s.scripts[agent], script)
	return s
}

// Fail queues a stream that fails immediately with err (chainable).
func (s *ScriptedInvoker) Fail(agent string, err error) *ScriptedInvoker {
	return s.OnScript(agent, Script{Err: err})
}

// Calls returns the recorded invocations in order.
func (s *ScriptedInvoker) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded invocations of one agent.
func (s *ScriptedInvoker) CallsTo(agent string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Agent == agent {
			out = append(out, c)
		}
	}
	return out
}

// Released returns how many streams were closed, either drained or abandoned.
func (s *ScriptedInvoker) Released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

func (s *ScriptedInvoker) next(agent string, msg core.Message) Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Agent: agent, Message: msg})
	q := s.scripts[agent]
	if len(q) == 0 {
		return Script{}
	}
	sc := q[0]
	if len(q) > 1 {
		s.scripts[agent] = q[1:]
	}
	return sc
}

// Invoke implements core.Invoker.
func (s *ScriptedInvoker) Invoke(ctx context.Context, agent *core.AgentDescriptor, msg core.Message) iter.Seq2[core.RemoteEvent, error] {
	if agent == nil {
		return func(yield func(core.RemoteEvent, error) bool) {
			yield(nil, errors.New("nil agent"))
		}
	}
	sc := s.next(agent.Name, msg)
	return func(yield func(core.RemoteEvent, error) bool) {
		defer func() {
			s.mu.Lock()
			s.released++
			s.mu.Unlock()
		}()
		for _, ev := range sc.Events {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
		if sc.Err != nil {
			yield(nil, sc.Err)
		}
	}
}
