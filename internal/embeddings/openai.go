// ABOUTME: OpenAI-backed embedding provider using the official Go client.
// ABOUTME: Defaults to text-embedding-3-small for journal entry vectors.
package embeddings

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEmbedder generates embeddings via the OpenAI embeddings API. It is
// safe for concurrent use.
type OpenAIEmbedder struct {
	client openai.Client
	model  openai.EmbeddingModel
	dim    atomic.Int32
}

// NewOpenAIEmbedder creates an OpenAI embedding provider. An empty apiKey
// falls through to the client's OPENAI_API_KEY environment lookup; an empty
// model selects text-embedding-3-small.
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	m := openai.EmbeddingModel(model)
	if model == "" {
		m = openai.EmbeddingModelTextEmbedding3Small
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(opts...),
		model:  m,
	}
}

// Embed returns the embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(context.Background(), openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed request failed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai returned empty embeddings")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	e.dim.CompareAndSwap(0, int32(len(vec)))
	return vec, nil
}

// Dimension returns the vector dimensionality observed from the first embed,
// or 0 before any call succeeds.
func (e *OpenAIEmbedder) Dimension() int {
	return int(e.dim.Load())
}
