// ABOUTME: Tests for the setup wizard bubbletea model.
// ABOUTME: Drives step transitions with synthetic key messages and a stub validator.
package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func asSetup(t *testing.T, m tea.Model) SetupModel {
	t.Helper()
	sm, ok := m.(SetupModel)
	if !ok {
		t.Fatalf("unexpected model type %T", m)
	}
	return sm
}

func TestNewSetupModelDefaults(t *testing.T) {
	m := NewSetupModel("", "", "", "")
	if m.step != StepProvider {
		t.Errorf("expected StepProvider, got %v", m.step)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor on ollama, got %d", m.cursor)
	}
}

func TestNewSetupModelPrefillsOpenAI(t *testing.T) {
	m := NewSetupModel(ProviderOpenAI, "", "text-embedding-3-large", "sk-existing")
	if m.cursor != 1 {
		t.Errorf("expected cursor on openai, got %d", m.cursor)
	}
	if m.inputs[inputAPIKey].Value() != "sk-existing" {
		t.Error("expected API key prefilled")
	}
	if m.inputs[inputModel].Value() != "text-embedding-3-large" {
		t.Error("expected model prefilled")
	}
}

func TestProviderCursorToggles(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, _ := m.Update(keyMsg(tea.KeyDown))
	m = asSetup(t, next)
	if m.cursor != 1 {
		t.Errorf("expected cursor 1 after down, got %d", m.cursor)
	}

	next, _ = m.Update(keyMsg(tea.KeyUp))
	m = asSetup(t, next)
	if m.cursor != 0 {
		t.Errorf("expected cursor 0 after up, got %d", m.cursor)
	}
}

func TestProviderSelectOllamaGoesToHost(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, _ := m.Update(keyMsg(tea.KeyEnter))
	m = asSetup(t, next)
	if m.step != StepHost {
		t.Errorf("expected StepHost, got %v", m.step)
	}
	if m.provider != ProviderOllama {
		t.Errorf("expected ollama provider, got %q", m.provider)
	}
}

func TestProviderSelectOpenAIGoesToAPIKey(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, _ := m.Update(keyMsg(tea.KeyDown))
	m = asSetup(t, next)
	next, _ = m.Update(keyMsg(tea.KeyEnter))
	m = asSetup(t, next)

	if m.step != StepAPIKey {
		t.Errorf("expected StepAPIKey, got %v", m.step)
	}
	if m.provider != ProviderOpenAI {
		t.Errorf("expected openai provider, got %q", m.provider)
	}
	if m.inputs[inputModel].Placeholder != DefaultOpenAIModel {
		t.Errorf("expected openai model placeholder, got %q", m.inputs[inputModel].Placeholder)
	}
}

func TestHostDefaultsOnEmptyEnter(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, _ := m.Update(keyMsg(tea.KeyEnter)) // select ollama
	m = asSetup(t, next)
	next, _ = m.Update(keyMsg(tea.KeyEnter)) // empty host
	m = asSetup(t, next)

	if m.step != StepModel {
		t.Errorf("expected StepModel, got %v", m.step)
	}
	if m.inputs[inputHost].Value() != DefaultOllamaHost {
		t.Errorf("expected default host, got %q", m.inputs[inputHost].Value())
	}
}

func TestAPIKeyRequiredBeforeAdvancing(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, _ := m.Update(keyMsg(tea.KeyDown))
	m = asSetup(t, next)
	next, _ = m.Update(keyMsg(tea.KeyEnter)) // select openai
	m = asSetup(t, next)
	next, _ = m.Update(keyMsg(tea.KeyEnter)) // empty key must not advance
	m = asSetup(t, next)

	if m.step != StepAPIKey {
		t.Errorf("expected to stay on StepAPIKey, got %v", m.step)
	}
}

func TestValidationSuccessFinishes(t *testing.T) {
	m := NewSetupModel("", "http://localhost:11434", "nomic-embed-text", "")
	m.validateFn = func(ctx context.Context, provider, host, model, apiKey string) error {
		return nil
	}

	next, _ := m.Update(keyMsg(tea.KeyEnter)) // select ollama
	m = asSetup(t, next)
	next, _ = m.Update(keyMsg(tea.KeyEnter)) // host
	m = asSetup(t, next)
	next, cmd := m.Update(keyMsg(tea.KeyEnter)) // model, starts validation
	m = asSetup(t, next)

	if m.step != StepValidating {
		t.Fatalf("expected StepValidating, got %v", m.step)
	}
	if cmd == nil {
		t.Fatal("expected validation command")
	}

	next, _ = m.Update(validationResultMsg{err: nil})
	m = asSetup(t, next)
	if m.step != StepDone {
		t.Errorf("expected StepDone, got %v", m.step)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave after successful validation")
	}

	provider, host, model, _ := m.Result()
	if provider != ProviderOllama || host != "http://localhost:11434" || model != "nomic-embed-text" {
		t.Errorf("unexpected result: %q %q %q", provider, host, model)
	}
}

func TestValidationFailureOffersRetry(t *testing.T) {
	m := NewSetupModel("", "", "", "")
	m.validateFn = func(ctx context.Context, provider, host, model, apiKey string) error {
		return fmt.Errorf("connection refused")
	}

	next, _ := m.Update(validationResultMsg{err: fmt.Errorf("connection refused")})
	m = asSetup(t, next)
	if m.step != StepFailed {
		t.Fatalf("expected StepFailed, got %v", m.step)
	}
	if m.ShouldSave() {
		t.Error("ShouldSave must be false after failure")
	}

	next, _ = m.Update(runeMsg('r'))
	m = asSetup(t, next)
	if m.step != StepValidating {
		t.Errorf("expected retry to StepValidating, got %v", m.step)
	}
	if m.validationErr != nil {
		t.Error("expected validation error cleared on retry")
	}
}

func TestValidationFailureSaveAnyway(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, _ := m.Update(validationResultMsg{err: fmt.Errorf("unreachable")})
	m = asSetup(t, next)
	next, _ = m.Update(runeMsg('s'))
	m = asSetup(t, next)

	if m.step != StepDone {
		t.Errorf("expected StepDone after save-anyway, got %v", m.step)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave after save-anyway")
	}
}

func TestEscapeQuits(t *testing.T) {
	m := NewSetupModel("", "", "", "")

	next, cmd := m.Update(keyMsg(tea.KeyEscape))
	m = asSetup(t, next)
	if !m.quitting {
		t.Error("expected quitting after escape")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if m.ShouldSave() {
		t.Error("ShouldSave must be false after escape")
	}
}
