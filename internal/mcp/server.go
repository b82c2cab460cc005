// ABOUTME: MCP server initialization and configuration for quill.
// ABOUTME: Sets up server with journal tools for AI agent access.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/quill/internal/embeddings"
	"github.com/2389-research/quill/internal/storage"
)

// Server wraps the MCP server with journal storage and the embedding engine.
type Server struct {
	mcp     *gomcp.Server
	journal storage.JournalStore
	engine  *embeddings.Engine
}

// NewServer creates an MCP server exposing the journal tools.
func NewServer(journal storage.JournalStore, engine *embeddings.Engine) (*Server, error) {
	if journal == nil {
		return nil, fmt.Errorf("journal store is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("embedding engine is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "quill",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		journal: journal,
		engine:  engine,
	}

	s.registerJournalTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
