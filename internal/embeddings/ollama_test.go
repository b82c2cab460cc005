// ABOUTME: Tests for the Ollama embedding provider.
// ABOUTME: Uses an httptest stub server; covers init probing and concurrent use.
package embeddings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func ollamaStub(t *testing.T, vec []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/embed":
			_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{vec}})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOllamaEmbedderEmbed(t *testing.T) {
	server := ollamaStub(t, []float32{0.1, 0.2, 0.3})
	defer server.Close()

	e, err := NewOllamaEmbedder(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("NewOllamaEmbedder error: %v", err)
	}

	vec, err := e.Embed("some journal text")
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3-dimensional vector, got %d", len(vec))
	}
	if e.Dimension() != 3 {
		t.Errorf("expected dimension 3, got %d", e.Dimension())
	}
}

func TestOllamaEmbedderUnreachable(t *testing.T) {
	_, err := NewOllamaEmbedder("http://localhost:1", "")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestOllamaEmbedderConcurrentEmbed(t *testing.T) {
	server := ollamaStub(t, []float32{0.5, 0.5, 0.5, 0.5})
	defer server.Close()

	e, err := NewOllamaEmbedder(server.URL, "")
	if err != nil {
		t.Fatalf("NewOllamaEmbedder error: %v", err)
	}

	// Writers and searchers share one provider instance; Embed must be safe
	// to call from multiple goroutines at once.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := e.Embed("concurrent caller text")
			if err != nil {
				t.Errorf("Embed error: %v", err)
				return
			}
			if len(vec) != 4 {
				t.Errorf("expected 4-dimensional vector, got %d", len(vec))
			}
		}()
	}
	wg.Wait()

	if e.Dimension() != 4 {
		t.Errorf("expected dimension 4, got %d", e.Dimension())
	}
}
