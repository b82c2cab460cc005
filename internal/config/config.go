// ABOUTME: Configuration management for quill with YAML config loading.
// ABOUTME: Handles embedding provider settings, journal root override, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Provider names accepted in the embedding config.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config stores quill configuration loaded from ~/.config/quill/config.yaml.
type Config struct {
	Journal   JournalConfig   `yaml:"journal"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// JournalConfig holds optional path overrides for journal storage.
type JournalConfig struct {
	Root string `yaml:"root"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider string       `yaml:"provider"`
	Ollama   OllamaConfig `yaml:"ollama"`
	OpenAI   OpenAIConfig `yaml:"openai"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// OpenAIConfig holds hosted OpenAI settings. An empty APIKey falls back to
// the OPENAI_API_KEY environment variable.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Embedding),
	)
}

// Validate implements validation for the embedding section.
func (c EmbeddingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Provider, validation.In(ProviderOllama, ProviderOpenAI)),
	)
}

// ProviderOrDefault returns the configured provider, defaulting to ollama.
func (c *Config) ProviderOrDefault() string {
	if c.Embedding.Provider == "" {
		return ProviderOllama
	}
	return c.Embedding.Provider
}

// OpenAIKey returns the configured API key, falling back to OPENAI_API_KEY.
func (c *Config) OpenAIKey() string {
	if c.Embedding.OpenAI.APIKey != "" {
		return c.Embedding.OpenAI.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// OllamaHost returns the configured Ollama host, falling back to the
// OLLAMA_HOST environment variable, then empty (provider default).
func (c *Config) OllamaHost() string {
	if c.Embedding.Ollama.Host != "" {
		return c.Embedding.Ollama.Host
	}
	return os.Getenv("OLLAMA_HOST")
}

// GetJournalRoot returns the journal storage root override, expanded, or ""
// to use the default home-derived root.
func (c *Config) GetJournalRoot() (string, error) {
	if c.Journal.Root == "" {
		return "", nil
	}
	return ExpandPath(c.Journal.Root)
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "quill", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk, creating the config directory if needed.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
