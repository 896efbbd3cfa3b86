package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/embedding"
	"github.com/hupe1980/agentgraph/logging"
)

const (
	metaName = "name"
	metaURI  = "uri"
	metaCard = "card"
)

// IndexOptions configures an Index.
type IndexOptions struct {
	// Collection names the chromem collection. Defaults to "agent_cards".
	Collection string
	// PersistPath enables a persistent chromem database in that directory.
	PersistPath string
	// MinSimilarity is the lowest cosine similarity accepted by Resolve.
	MinSimilarity float32
	Logger        logging.Logger
}

// Match is a scored search result.
type Match struct {
	Card       Card
	Similarity float32
}

// Index is a similarity search over agent cards.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	opts       IndexOptions

	mu    sync.RWMutex
	cards map[string]Card // by URI
}

// NewIndex creates an empty index that embeds documents with embedder.
func NewIndex(embedder embedding.Embedder, optFns ...func(o *IndexOptions)) (*Index, error) {
	opts := IndexOptions{Collection: "agent_cards"}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Collection == "" {
		opts.Collection = "agent_cards"
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	var db *chromem.DB
	if opts.PersistPath != "" {
		var err error
		db, err = chromem.NewPersistentDB(filepath.Join(opts.PersistPath, "chromem"), false)
		if err != nil {
			return nil, fmt.Errorf("create persistent DB: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(opts.Collection, nil, embedding.Func(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: collection, opts: opts, cards: make(map[string]Card)}, nil
}

// NewIndexFromDir loads the cards in dir and indexes them.
func NewIndexFromDir(ctx context.Context, dir string, embedder embedding.Embedder, optFns ...func(o *IndexOptions)) (*Index, error) {
	cards, err := LoadCards(dir)
	if err != nil {
		return nil, err
	}
	ix, err := NewIndex(embedder, optFns...)
	if err != nil {
		return nil, err
	}
	if err := ix.Add(ctx, cards...); err != nil {
		return nil, err
	}
	return ix, nil
}

// Add embeds and stores cards. A card without URI gets one derived from its
// name. Adding a card with an existing URI replaces it.
func (ix *Index) Add(ctx context.Context, cards ...Card) error {
	for _, c := range cards {
		if c.URI == "" {
			c.URI = CardURIPrefix + c.Name
		}
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode card %s: %w", c.Name, err)
		}
		err = ix.collection.AddDocument(ctx, chromem.Document{
			ID:      c.URI,
			Content: c.Text(),
			Metadata: map[string]string{
				metaName: c.Name,
				metaURI:  c.URI,
				metaCard: string(raw),
			},
		})
		if err != nil {
			return fmt.Errorf("add card %s: %w", c.URI, err)
		}
		ix.mu.Lock()
		ix.cards[c.URI] = c
		ix.mu.Unlock()
		ix.opts.Logger.Debug("Indexed agent card", "name", c.Name, "uri", c.URI)
	}
	return nil
}

// Count returns the number of indexed cards.
func (ix *Index) Count() int { return ix.collection.Count() }

// Cards returns the cards added to this index, sorted by URI.
func (ix *Index) Cards() []Card {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Card, 0, len(ix.cards))
	for _, c := range ix.cards {
		out = append(out, c)
	}
	sortCards(out)
	return out
}

// Search returns up to k cards ordered by descending similarity to query.
// Results below MinSimilarity are dropped.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Match, error) {
	n := ix.collection.Count()
	if n == 0 {
		return nil, nil
	}
	if k <= 0 || k > n {
		k = n
	}
	results, err := ix.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	out := make([]Match, 0, len(results))
	for _, r := range results {
		if r.Similarity < ix.opts.MinSimilarity {
			continue
		}
		c, err := ix.cardFor(r)
		if err != nil {
			return nil, err
		}
		out = append(out, Match{Card: c, Similarity: r.Similarity})
	}
	return out, nil
}

func (ix *Index) cardFor(r chromem.Result) (Card, error) {
	ix.mu.RLock()
	c, ok := ix.cards[r.ID]
	ix.mu.RUnlock()
	if ok {
		return c, nil
	}
	// documents restored from a persistent DB carry the card in metadata
	if err := json.Unmarshal([]byte(r.Metadata[metaCard]), &c); err != nil {
		return Card{}, fmt.Errorf("decode card %s: %w", r.ID, err)
	}
	c.URI = r.Metadata[metaURI]
	return c, nil
}

// Resolve implements core.Discovery by returning the most similar card.
func (ix *Index) Resolve(ctx context.Context, task string) (*core.AgentDescriptor, error) {
	if strings.TrimSpace(task) == "" {
		return nil, fmt.Errorf("empty task: %w", core.ErrAgentNotFound)
	}
	matches, err := ix.Search(ctx, task, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("task %q: %w", task, core.ErrAgentNotFound)
	}
	ix.opts.Logger.Debug("Resolved task", "task", task, "agent", matches[0].Card.Name, "similarity", matches[0].Similarity)
	return matches[0].Card.Descriptor(), nil
}

// ResolveWellKnown implements core.Discovery. name matches a card URI, its
// stem, or its name.
func (ix *Index) ResolveWellKnown(ctx context.Context, name string) (*core.AgentDescriptor, error) {
	uri := name
	if !strings.HasPrefix(uri, CardURIPrefix) {
		uri = CardURIPrefix + name
	}

	ix.mu.RLock()
	c, ok := ix.cards[uri]
	if !ok {
		for _, cand := range ix.cards {
			if strings.EqualFold(cand.Name, name) {
				c, ok = cand, true
				break
			}
		}
	}
	ix.mu.RUnlock()
	if ok {
		return c.Descriptor(), nil
	}

	doc, err := ix.collection.GetByID(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("well-known %q: %w", name, core.ErrAgentNotFound)
	}
	c, err = ix.cardFor(chromem.Result{ID: doc.ID, Metadata: doc.Metadata})
	if err != nil {
		return nil, err
	}
	return c.Descriptor(), nil
}
