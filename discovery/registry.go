package discovery

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/agentgraph/core"
)

// Registry is a static Discovery that scores cards by word overlap between
// the task and the card text. Ties go to the card registered first.
type Registry struct {
	mu    sync.RWMutex
	cards []Card
}

// NewRegistry creates a registry holding cards.
func NewRegistry(cards ...Card) *Registry {
	r := &Registry{}
	r.Register(cards...)
	return r
}

// Register adds cards. A card whose URI is already registered is replaced.
func (r *Registry) Register(cards ...Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cards {
		if c.URI == "" {
			c.URI = CardURIPrefix + c.Name
		}
		if i := slices.IndexFunc(r.cards, func(e Card) bool { return e.URI == c.URI }); i >= 0 {
			r.cards[i] = c
			continue
		}
		r.cards = append(r.cards, c)
	}
}

// Cards returns the registered cards sorted by URI.
func (r *Registry) Cards() []Card {
	r.mu.RLock()
	out := slices.Clone(r.cards)
	r.mu.RUnlock()
	sortCards(out)
	return out
}

// Resolve implements core.Discovery.
func (r *Registry) Resolve(_ context.Context, task string) (*core.AgentDescriptor, error) {
	words := wordSet(task)
	r.mu.RLock()
	defer r.mu.RUnlock()

	best, bestScore := -1, 0
	for i, c := range r.cards {
		score := 0
		for w := range wordSet(c.Text()) {
			if _, ok := words[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("task %q: %w", task, core.ErrAgentNotFound)
	}
	return r.cards[best].Descriptor(), nil
}

// ResolveWellKnown implements core.Discovery.
func (r *Registry) ResolveWellKnown(_ context.Context, name string) (*core.AgentDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cards {
		if c.URI == name || c.Stem() == name || strings.EqualFold(c.Name, name) {
			return c.Descriptor(), nil
		}
	}
	return nil, fmt.Errorf("well-known %q: %w", name, core.ErrAgentNotFound)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(f) > 2 {
			out[f] = struct{}{}
		}
	}
	return out
}

func sortCards(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int { return strings.Compare(a.URI, b.URI) })
}
