package embedding

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIOptions configures an OpenAI embedder.
type OpenAIOptions struct {
	Model     string
	APIKey    string
	BaseURL   string
	CacheSize int
	// RequestOptions are appended to the client options.
	RequestOptions []option.RequestOption
}

// OpenAI embeds text with the OpenAI embeddings API and caches results.
type OpenAI struct {
	client openai.Client
	model  string
	cache  *lru.Cache[string, []float32]
}

// NewOpenAI creates an OpenAI embedder. The API key falls back to the
// OPENAI_API_KEY environment variable read by the client.
func NewOpenAI(optFns ...func(o *OpenAIOptions)) (*OpenAI, error) {
	opts := OpenAIOptions{Model: string(openai.EmbeddingModelTextEmbedding3Small), CacheSize: 1024}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}

	var reqOpts []option.RequestOption
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	reqOpts = append(reqOpts, opts.RequestOptions...)

	cache, err := lru.New[string, []float32](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), model: opts.Model, cache: cache}, nil
}

// Embed implements Embedder.
func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai embeddings: empty response")
	}
	raw := resp.Data[0].Embedding
	v := make([]float32, len(raw))
	for i, x := range raw {
		v[i] = float32(x)
	}
	v = normalize(v)
	e.cache.Add(text, v)
	return v, nil
}
