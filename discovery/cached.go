package discovery

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/agentgraph/core"
)

const wellKnownPrefix = "\x00well-known:"

// Cached memoizes successful resolutions of another Discovery. Failures are
// not cached.
type Cached struct {
	next  core.Discovery
	cache *lru.Cache[string, *core.AgentDescriptor]
}

// NewCached wraps next with an LRU cache of the given size.
func NewCached(next core.Discovery, size int) (*Cached, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, *core.AgentDescriptor](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Resolve implements core.Discovery.
func (c *Cached) Resolve(ctx context.Context, task string) (*core.AgentDescriptor, error) {
	return c.lookup(task, func() (*core.AgentDescriptor, error) { return c.next.Resolve(ctx, task) })
}

// ResolveWellKnown implements core.Discovery.
func (c *Cached) ResolveWellKnown(ctx context.Context, name string) (*core.AgentDescriptor, error) {
	return c.lookup(wellKnownPrefix+name, func() (*core.AgentDescriptor, error) { return c.next.ResolveWellKnown(ctx, name) })
}

// Purge drops every cached entry.
func (c *Cached) Purge() { c.cache.Purge() }

// Len returns the number of cached entries.
func (c *Cached) Len() int { return c.cache.Len() }

func (c *Cached) lookup(key string, load func() (*core.AgentDescriptor, error)) (*core.AgentDescriptor, error) {
	if a, ok := c.cache.Get(key); ok {
		return a, nil
	}
	a, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, a)
	return a, nil
}
