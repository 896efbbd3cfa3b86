package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// StaticDiscovery resolves tasks from fixed tables. Tasks are matched
// exactly first, then by case-insensitive substring of the registered key.
type StaticDiscovery struct {
	mu        sync.Mutex
	byTask    map[string]*core.AgentDescriptor
	wellKnown map[string]*core.AgentDescriptor
	keys      []string
	Err       error // returned by every call when set
	Calls     []string
}

// NewStaticDiscovery creates an empty discovery.
func NewStaticDiscovery() *StaticDiscovery {
	return &StaticDiscovery{byTask: map[string]*core.AgentDescriptor{}, wellKnown: map[string]*core.AgentDescriptor{}}
}

// Agent returns a streaming descriptor with a test URL for name.
func Agent(name string) *core.AgentDescriptor {
	return &core.AgentDescriptor{Name: name, URL: "http://agents.test/" + name, Streaming: true}
}

// Route registers the agent serving tasks containing key (chainable).
func (d *StaticDiscovery) Route(key string, agent *core.AgentDescriptor) *StaticDiscovery {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byTask[key] = agent
	d.keys = append(d.keys, key)
	return d
}

// WellKnown registers a well-known agent (chainable).
func (d *StaticDiscovery) WellKnown(name string, agent *core.AgentDescriptor) *StaticDiscovery {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wellKnown[name] = agent
	return d
}

// Resolve implements core.Discovery.
func (d *StaticDiscovery) Resolve(_ context.Context, task string) (*core.AgentDescriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, task)
	if d.Err != nil {
		return nil, d.Err
	}
	if a, ok := d.byTask[task]; ok {
		return a, nil
	}
	lower := strings.ToLower(task)
	for _, k := range d.keys {
		if strings.Contains(lower, strings.ToLower(k)) {
			return d.byTask[k], nil
		}
	}
	return nil, fmt.Errorf("task %q: %w", task, core.ErrAgentNotFound)
}

// ResolveWellKnown implements core.Discovery.
func (d *StaticDiscovery) ResolveWellKnown(_ context.Context, name string) (*core.AgentDescriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, "well-known:"+name)
	if d.Err != nil {
		return nil, d.Err
	}
	if a, ok := d.wellKnown[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("well-known %q: %w", name, core.ErrAgentNotFound)
}
