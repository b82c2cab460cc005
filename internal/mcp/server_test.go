// ABOUTME: Tests for MCP server creation and validation.
// ABOUTME: Verifies the server requires both a journal store and an engine.
package mcp

import (
	"testing"

	"github.com/2389-research/quill/internal/embeddings"
	"github.com/2389-research/quill/internal/paths"
	"github.com/2389-research/quill/internal/storage"
)

func TestNewServerRequiresJournalStore(t *testing.T) {
	engine := embeddings.NewEngine(func() (embeddings.Embedder, error) {
		return nil, nil
	})

	_, err := NewServer(nil, engine)
	if err == nil {
		t.Error("expected error when journal store is nil")
	}
}

func TestNewServerRequiresEngine(t *testing.T) {
	journal := storage.NewJournalMDStore(paths.NewResolver(t.TempDir()), nil, nil)

	_, err := NewServer(journal, nil)
	if err == nil {
		t.Error("expected error when engine is nil")
	}
}

func TestNewServerSuccess(t *testing.T) {
	engine := embeddings.NewEngine(func() (embeddings.Embedder, error) {
		return nil, nil
	})
	journal := storage.NewJournalMDStore(paths.NewResolver(t.TempDir()), nil, engine)

	server, err := NewServer(journal, engine)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server == nil {
		t.Error("expected non-nil server")
	}
}
