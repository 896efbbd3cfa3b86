package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashingOptions configures a Hashing embedder.
type HashingOptions struct {
	Dimensions int
}

// Hashing is a deterministic bag-of-words embedder that hashes lower cased
// word tokens into a fixed number of buckets. It needs no network access and
// is intended for offline use and tests.
type Hashing struct {
	dims int
}

// NewHashing creates a Hashing embedder with 256 dimensions by default.
func NewHashing(optFns ...func(o *HashingOptions)) *Hashing {
	opts := HashingOptions{Dimensions: 256}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Dimensions <= 0 {
		opts.Dimensions = 256
	}
	return &Hashing{dims: opts.Dimensions}
}

// Dimensions returns the vector length.
func (h *Hashing) Dimensions() int { return h.dims }

// Embed implements Embedder. Text without any word token yields a vector
// with a single set bucket so the result is always unit length.
func (h *Hashing) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, h.dims)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		v[0] = 1
		return v, nil
	}
	for _, tok := range tokens {
		f := fnv.New32a()
		_, _ = f.Write([]byte(tok))
		v[int(f.Sum32()%uint32(h.dims))]++
	}
	return normalize(v), nil
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "to": {}, "of": {}, "for": {}, "in": {}, "on": {}, "with": {}, "me": {}, "my": {}, "i": {},
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, ok := stopWords[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}
