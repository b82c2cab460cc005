// ABOUTME: Root Cobra command and global wiring for the quill CLI.
// ABOUTME: Builds config, resolver, embedding engine, and journal store once per run.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/quill/internal/config"
	"github.com/2389-research/quill/internal/embeddings"
	"github.com/2389-research/quill/internal/paths"
	"github.com/2389-research/quill/internal/storage"
)

var globalConfig *config.Config
var globalResolver *paths.Resolver
var globalEngine *embeddings.Engine
var globalJournalStore storage.JournalStore

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Private journal with semantic search for humans and agents",
	Long: `
  ██████╗ ██╗   ██╗██╗██╗     ██╗
 ██╔═══██╗██║   ██║██║██║     ██║
 ██║   ██║██║   ██║██║██║     ██║
 ██║▄▄ ██║██║   ██║██║██║     ██║
 ╚██████╔╝╚██████╔╝██║███████╗███████╗
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝

Private journaling with embedding-backed semantic retrieval.
Entries are plain markdown on disk; search is local vectors.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		root, err := cfg.GetJournalRoot()
		if err != nil {
			return fmt.Errorf("failed to resolve journal root: %w", err)
		}
		globalResolver = paths.NewResolver(root)

		globalEngine = embeddings.NewEngine(newEmbedder(cfg))
		globalJournalStore = storage.NewJournalMDStore(globalResolver, paths.NewGitDetector(), globalEngine)

		return nil
	},
}

// newEmbedder builds the provider constructor for the configured embedding
// backend. Construction is deferred to the engine's first use.
func newEmbedder(cfg *config.Config) func() (embeddings.Embedder, error) {
	switch cfg.ProviderOrDefault() {
	case config.ProviderOpenAI:
		return func() (embeddings.Embedder, error) {
			return embeddings.NewOpenAIEmbedder(cfg.OpenAIKey(), cfg.Embedding.OpenAI.Model), nil
		}
	default:
		return func() (embeddings.Embedder, error) {
			return embeddings.NewOllamaEmbedder(cfg.OllamaHost(), cfg.Embedding.Ollama.Model)
		}
	}
}
