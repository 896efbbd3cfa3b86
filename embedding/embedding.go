// Package embedding provides text embedding functions used by discovery to
// index agent cards. Every implementation returns unit length vectors so
// cosine similarity reduces to a dot product.
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder turns text into a normalized vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Func adapts an Embedder to a chromem embedding function.
func Func(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text)
	}
}

// Config selects and configures an Embedder.
type Config struct {
	// Provider is "openai" or "hashing".
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	CacheSize int
	// Dimensions applies to the hashing provider.
	Dimensions int
}

// New creates the Embedder named by cfg.Provider.
func New(cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "hashing":
		return NewHashing(func(o *HashingOptions) {
			if cfg.Dimensions > 0 {
				o.Dimensions = cfg.Dimensions
			}
		}), nil
	case "openai":
		return NewOpenAI(func(o *OpenAIOptions) {
			o.Model = cfg.Model
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			if cfg.CacheSize > 0 {
				o.CacheSize = cfg.CacheSize
			}
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
