// ABOUTME: Embedding engine for journal search with lazy one-time initialization.
// ABOUTME: Wraps an opaque text-to-vector provider behind a process-wide singleton.
package embeddings

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

// ErrUnavailable indicates the embedding provider could not be initialized
// or was asked to embed empty text.
var ErrUnavailable = errors.New("embedding engine unavailable")

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed returns a vector embedding for the given text.
	Embed(text string) ([]float32, error)

	// Dimension returns the dimensionality of the output vectors, or 0 if
	// not yet known.
	Dimension() int
}

// Engine wraps an Embedder with lazy one-time initialization. Construction
// of the underlying provider is expensive and happens at most once per
// process; the Engine is safe for concurrent use once constructed.
type Engine struct {
	construct func() (Embedder, error)

	once     sync.Once
	embedder Embedder
	err      error
}

// NewEngine creates an engine that builds its provider on first use via
// construct. The same Engine instance is shared by the writer and the
// retrieval index.
func NewEngine(construct func() (Embedder, error)) *Engine {
	return &Engine{construct: construct}
}

func (e *Engine) init() {
	e.embedder, e.err = e.construct()
	if e.err == nil && e.embedder == nil {
		e.err = fmt.Errorf("provider constructor returned nil")
	}
}

// Embed returns a vector embedding for text. Empty text is rejected before
// the provider is touched; initialization failures are remembered and
// surfaced as ErrUnavailable on every call.
func (e *Engine) Embed(text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", ErrUnavailable)
	}
	e.once.Do(e.init)
	if e.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, e.err)
	}
	return e.embedder.Embed(text)
}

// Dimension returns the provider's vector dimensionality, or 0 when the
// provider is uninitialized or failed to initialize.
func (e *Engine) Dimension() int {
	e.once.Do(e.init)
	if e.err != nil {
		return 0
	}
	return e.embedder.Dimension()
}

// CosineSimilarity computes dot(a,b) / (|a| * |b|). Vectors of mismatched
// length are a programmer error and panic rather than degrading silently.
// Zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("cosine similarity: mismatched vector lengths %d and %d", len(a), len(b)))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
