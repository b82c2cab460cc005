// ABOUTME: Tests for quill configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, provider validation, and env fallbacks.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Embedding.Provider != "" {
		t.Error("expected empty provider in default config")
	}
	if cfg.ProviderOrDefault() != ProviderOllama {
		t.Errorf("ProviderOrDefault() = %q, want ollama", cfg.ProviderOrDefault())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	quillDir := filepath.Join(configDir, "quill")
	if err := os.MkdirAll(quillDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := `
journal:
  root: /data/journal
embedding:
  provider: openai
  openai:
    model: text-embedding-3-large
`
	if err := os.WriteFile(filepath.Join(quillDir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Journal.Root != "/data/journal" {
		t.Errorf("Journal.Root = %q", cfg.Journal.Root)
	}
	if cfg.Embedding.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", cfg.Embedding.Provider)
	}
	if cfg.Embedding.OpenAI.Model != "text-embedding-3-large" {
		t.Errorf("OpenAI.Model = %q", cfg.Embedding.OpenAI.Model)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	quillDir := filepath.Join(configDir, "quill")
	if err := os.MkdirAll(quillDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := "embedding:\n  provider: cohere\n"
	if err := os.WriteFile(filepath.Join(quillDir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestOpenAIKeyEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg := &Config{}
	if got := cfg.OpenAIKey(); got != "sk-from-env" {
		t.Errorf("OpenAIKey() = %q, want sk-from-env", got)
	}

	cfg.Embedding.OpenAI.APIKey = "sk-from-config"
	if got := cfg.OpenAIKey(); got != "sk-from-config" {
		t.Errorf("OpenAIKey() = %q, want sk-from-config", got)
	}
}

func TestSaveRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{}
	cfg.Embedding.Provider = ProviderOllama
	cfg.Embedding.Ollama.Host = "http://localhost:11434"
	cfg.Embedding.Ollama.Model = "nomic-embed-text"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Embedding.Ollama.Model != "nomic-embed-text" {
		t.Errorf("Ollama.Model = %q", loaded.Embedding.Ollama.Model)
	}
}
