// ABOUTME: HTTP connection validation for embedding providers.
// ABOUTME: Probes the Ollama tags endpoint or the OpenAI models endpoint.
package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIBaseURL is the endpoint probed when validating OpenAI credentials.
// Overridable for tests.
var OpenAIBaseURL = "https://api.openai.com/v1"

// ValidateProvider tests the selected embedding provider's connection.
// The context allows cancellation when the user quits during validation.
func ValidateProvider(ctx context.Context, provider, host, model, apiKey string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return fmt.Errorf("an API key is required")
		}
		req, err := http.NewRequestWithContext(ctx, "GET", OpenAIBaseURL+"/models", nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		return doProbe(client, req)

	default:
		if host == "" {
			host = DefaultOllamaHost
		}
		host = strings.TrimRight(host, "/")
		req, err := http.NewRequestWithContext(ctx, "GET", host+"/api/tags", nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return doProbe(client, req)
	}
}

func doProbe(client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
