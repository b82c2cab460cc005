// ABOUTME: Cobra command for interactive embedding provider setup.
// ABOUTME: Launches a bubbletea TUI wizard to pick and validate a provider.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/quill/internal/config"
	"github.com/2389-research/quill/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the embedding provider",
	Long:  "Interactive wizard to choose and validate an embedding provider (Ollama or OpenAI).",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	embedModel := cfg.Embedding.Ollama.Model
	if cfg.ProviderOrDefault() == config.ProviderOpenAI {
		embedModel = cfg.Embedding.OpenAI.Model
	}
	model := tui.NewSetupModel(
		cfg.ProviderOrDefault(),
		cfg.Embedding.Ollama.Host,
		embedModel,
		cfg.Embedding.OpenAI.APIKey,
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	provider, host, embedModel, apiKey := final.Result()
	cfg.Embedding.Provider = provider
	switch provider {
	case config.ProviderOllama:
		cfg.Embedding.Ollama.Host = host
		cfg.Embedding.Ollama.Model = embedModel
	case config.ProviderOpenAI:
		cfg.Embedding.OpenAI.APIKey = apiKey
		cfg.Embedding.OpenAI.Model = embedModel
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}
