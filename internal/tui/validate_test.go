// ABOUTME: Tests for provider connection validation.
// ABOUTME: Uses httptest servers to simulate Ollama and OpenAI endpoints.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateProviderOllamaSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := ValidateProvider(context.Background(), ProviderOllama, server.URL, "nomic-embed-text", "")
	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestValidateProviderOllamaTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := ValidateProvider(context.Background(), ProviderOllama, server.URL+"/", "", "")
	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestValidateProviderOllamaServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model store corrupt", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := ValidateProvider(context.Background(), ProviderOllama, server.URL, "", "")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should include status code: %v", err)
	}
}

func TestValidateProviderOllamaUnreachable(t *testing.T) {
	err := ValidateProvider(context.Background(), ProviderOllama, "http://localhost:1", "", "")
	if err == nil {
		t.Fatal("expected error for unreachable host")
	}
	if !strings.Contains(err.Error(), "connection failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateProviderOpenAISuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	orig := OpenAIBaseURL
	OpenAIBaseURL = server.URL
	defer func() { OpenAIBaseURL = orig }()

	err := ValidateProvider(context.Background(), ProviderOpenAI, "", "text-embedding-3-small", "sk-test")
	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestValidateProviderOpenAIRequiresKey(t *testing.T) {
	err := ValidateProvider(context.Background(), ProviderOpenAI, "", "", "")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateProviderOpenAIUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	orig := OpenAIBaseURL
	OpenAIBaseURL = server.URL
	defer func() { OpenAIBaseURL = orig }()

	err := ValidateProvider(context.Background(), ProviderOpenAI, "", "", "sk-bad")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should include status code: %v", err)
	}
}

func TestValidateProviderCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ValidateProvider(ctx, ProviderOllama, server.URL, "", "")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
