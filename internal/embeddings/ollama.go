// ABOUTME: Ollama-backed embedding provider over the local HTTP API.
// ABOUTME: Uses /api/embed for vectors and /api/tags as a health probe.
package embeddings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultOllamaHost is the local Ollama endpoint.
const DefaultOllamaHost = "http://localhost:11434"

// DefaultOllamaModel is the embedding model pulled by default.
const DefaultOllamaModel = "nomic-embed-text"

// OllamaEmbedder generates embeddings via a local Ollama server. It is safe
// for concurrent use.
type OllamaEmbedder struct {
	host       string
	model      string
	httpClient *http.Client
	dim        atomic.Int32
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaEmbedder connects to the Ollama server at host and verifies it is
// reachable. An unreachable server is an initialization failure, not a
// deferred one.
func NewOllamaEmbedder(host, model string) (*OllamaEmbedder, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	e := &OllamaEmbedder{
		host:  host,
		model: model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	if err := e.ping(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *OllamaEmbedder) ping() error {
	resp, err := e.httpClient.Get(e.host + "/api/tags")
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", e.host, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama at %s returned status %d", e.host, resp.StatusCode)
	}
	return nil
}

// Embed returns the embedding vector for the given text.
func (e *OllamaEmbedder) Embed(text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	resp, err := e.httpClient.Post(e.host+"/api/embed", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama embed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed returned status %d", resp.StatusCode)
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama returned empty embeddings")
	}

	vec := result.Embeddings[0]
	e.dim.CompareAndSwap(0, int32(len(vec)))
	return vec, nil
}

// Dimension returns the vector dimensionality observed from the first embed,
// or 0 before any call succeeds.
func (e *OllamaEmbedder) Dimension() int {
	return int(e.dim.Load())
}
