// ABOUTME: Interactive TUI wizard for configuring the embedding provider.
// ABOUTME: Bubbletea model selecting ollama/openai and validating the connection.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Provider names offered by the wizard.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// DefaultOllamaHost is the default local Ollama endpoint.
const DefaultOllamaHost = "http://localhost:11434"

// DefaultOllamaModel is the default Ollama embedding model.
const DefaultOllamaModel = "nomic-embed-text"

// DefaultOpenAIModel is the default OpenAI embedding model.
const DefaultOpenAIModel = "text-embedding-3-small"

// Step represents the current wizard step.
type Step int

const (
	StepProvider Step = iota
	StepHost
	StepAPIKey
	StepModel
	StepValidating
	StepDone
	StepFailed
)

// Input indices into the model's textinput array.
const (
	inputHost = iota
	inputAPIKey
	inputModel
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for provider validation.
type ValidateFn func(ctx context.Context, provider, host, model, apiKey string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	provider      string
	cursor        int
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(provider, ollamaHost, ollamaModel, apiKey string) SetupModel {
	hostInput := textinput.New()
	hostInput.Placeholder = DefaultOllamaHost
	hostInput.Width = 50
	if ollamaHost != "" {
		hostInput.SetValue(ollamaHost)
	}

	keyInput := textinput.New()
	keyInput.Placeholder = "sk-..."
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 50
	if apiKey != "" {
		keyInput.SetValue(apiKey)
	}

	modelInput := textinput.New()
	modelInput.Placeholder = DefaultOllamaModel
	modelInput.Width = 50
	if ollamaModel != "" {
		modelInput.SetValue(ollamaModel)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	cursor := 0
	if provider == ProviderOpenAI {
		cursor = 1
	}

	return SetupModel{
		step:       StepProvider,
		provider:   ProviderOllama,
		cursor:     cursor,
		inputs:     [3]textinput.Model{hostInput, keyInput, modelInput},
		spinner:    s,
		validateFn: ValidateProvider,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepProvider:
			return m.updateProvider(msg)
		case StepHost, StepAPIKey, StepModel:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateProvider(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown:
		m.cursor = 1 - m.cursor
		return m, nil
	case tea.KeyEnter:
		if m.cursor == 1 {
			m.provider = ProviderOpenAI
			m.inputs[inputModel].Placeholder = DefaultOpenAIModel
			m.step = StepAPIKey
			m.inputs[inputAPIKey].Focus()
		} else {
			m.provider = ProviderOllama
			m.inputs[inputModel].Placeholder = DefaultOllamaModel
			m.step = StepHost
			m.inputs[inputHost].Focus()
		}
		return m, textinput.Blink
	}
	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		switch m.step {
		case StepHost:
			if m.inputs[inputHost].Value() == "" {
				m.inputs[inputHost].SetValue(DefaultOllamaHost)
			} else {
				m.inputs[inputHost].SetValue(strings.TrimRight(m.inputs[inputHost].Value(), "/"))
			}
			m.inputs[inputHost].Blur()
			m.step = StepModel
			m.inputs[inputModel].Focus()
			return m, textinput.Blink

		case StepAPIKey:
			// Don't advance on empty API key
			if m.inputs[inputAPIKey].Value() == "" {
				return m, nil
			}
			m.inputs[inputAPIKey].Blur()
			m.step = StepModel
			m.inputs[inputModel].Focus()
			return m, textinput.Blink

		case StepModel:
			if m.inputs[inputModel].Value() == "" {
				m.inputs[inputModel].SetValue(m.inputs[inputModel].Placeholder)
			}
			m.inputs[inputModel].Blur()
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := m.activeInput()
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) activeInput() int {
	switch m.step {
	case StepHost:
		return inputHost
	case StepAPIKey:
		return inputAPIKey
	default:
		return inputModel
	}
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	provider := m.provider
	host := m.inputs[inputHost].Value()
	model := m.inputs[inputModel].Value()
	apiKey := m.inputs[inputAPIKey].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, provider, host, model, apiKey)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   QUILL"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure the embedding provider for semantic search.\n\n")

	switch m.step {
	case StepProvider:
		b.WriteString(stepStyle.Render("Step 1: Provider"))
		b.WriteString("\n")
		for i, name := range []string{"ollama (local)", "openai (hosted)"} {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("> " + name))
			} else {
				b.WriteString("  " + name)
			}
			b.WriteString("\n")
		}

	case StepHost:
		b.WriteString(fmt.Sprintf("  Provider: %s\n\n", m.provider))
		b.WriteString(stepStyle.Render("Step 2: Ollama host"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputHost].View())
		b.WriteString("\n")

	case StepAPIKey:
		b.WriteString(fmt.Sprintf("  Provider: %s\n\n", m.provider))
		b.WriteString(stepStyle.Render("Step 2: OpenAI API key"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputAPIKey].View())
		b.WriteString("\n")

	case StepModel:
		b.WriteString(fmt.Sprintf("  Provider: %s\n\n", m.provider))
		b.WriteString(stepStyle.Render("Step 3: Embedding model"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputModel].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("%s Validating %s connection...\n", m.spinner.View(), m.provider))

	case StepDone:
		b.WriteString(successStyle.Render("Provider validated."))
		b.WriteString("\n")

	case StepFailed:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Validation failed: %v", m.validationErr)))
		b.WriteString("\n\n")
		b.WriteString("(r)etry, (s)ave anyway, or (q)uit\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("esc to cancel"))
	b.WriteString("\n")

	return b.String()
}

// ShouldSave reports whether the wizard finished with values worth saving.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}

// Result returns the collected provider settings.
func (m SetupModel) Result() (provider, host, model, apiKey string) {
	return m.provider,
		m.inputs[inputHost].Value(),
		m.inputs[inputModel].Value(),
		m.inputs[inputAPIKey].Value()
}
