// envsetup provides a lightweight .env configuration wizard.
// It runs via cmd/setup or `web --setup` and collects the LLM provider
// and its API key.
package envsetup

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type step int

const (
	stepWelcome step = iota
	stepProvider
	stepKey
	stepConfirm
	stepDone
)

type provider struct {
	name   string
	label  string
	envKey string
	model  string
	keyURL string
}

var providers = []provider{
	{"together", "Together AI (Mixtral)", "TOGETHER_API_KEY", "mistralai/Mixtral-8x7B-Instruct-v0.1", "https://api.together.xyz/settings/api-keys"},
	{"anthropic", "Anthropic (Claude)", "ANTHROPIC_API_KEY", "claude-sonnet-4-5-20250929", "https://console.anthropic.com"},
	{"google", "Google (Gemini)", "GOOGLE_API_KEY", "gemini-2.0-flash", "https://aistudio.google.com/apikey"},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	step     step
	path     string
	provider provider
	apiKey   string
	input    textinput.Model
	err      error
}

func New(path string) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()
	return model{step: stepWelcome, path: path, input: ti}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepWelcome:
		m.step = stepProvider

	case stepProvider:
		p, ok := parseProvider(value)
		if !ok {
			m.err = fmt.Errorf("Please enter 1, 2 or 3")
			m.input.SetValue("")
			return m, nil
		}
		m.provider = p
		m.step = stepKey
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '*'

	case stepKey:
		if value == "" {
			m.err = fmt.Errorf("API key is required")
			m.input.SetValue("")
			return m, nil
		}
		m.apiKey = value
		m.step = stepConfirm
		m.input.EchoMode = textinput.EchoNormal

	case stepConfirm:
		switch strings.ToLower(value) {
		case "", "y", "yes":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.step = stepDone
			return m, tea.Quit
		case "n", "no":
			m.step = stepWelcome
			m.provider = provider{}
			m.apiKey = ""
		}
	}

	m.input.SetValue("")
	return m, nil
}

func parseProvider(choice string) (provider, bool) {
	choice = strings.ToLower(choice)
	for i, p := range providers {
		if choice == fmt.Sprint(i+1) || choice == p.name {
			return p, true
		}
	}
	return provider{}, false
}

func (m model) envContent() string {
	return fmt.Sprintf("LLM_PROVIDER=%s\nLLM_MODEL=%s\n%s=%s\n",
		m.provider.name, m.provider.model, m.provider.envKey, m.apiKey)
}

func (m model) writeEnvFile() error {
	return os.WriteFile(m.path, []byte(m.envContent()), 0600)
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("dualsolve - Env Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard writes the " + m.path + " file read by the web server.\n")
		s.WriteString("You'll need an API key for one LLM provider.\n\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepProvider:
		s.WriteString(titleStyle.Render("Step 1: Choose LLM Provider"))
		s.WriteString("\n\n")
		for i, p := range providers {
			fmt.Fprintf(&s, "  %d. %s\n", i+1, p.label)
		}
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Enter 1, 2 or 3:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepKey:
		s.WriteString(titleStyle.Render("Step 2: " + m.provider.label + " API Key"))
		s.WriteString("\n\n")
		s.WriteString("Create a key at " + linkStyle.Render(m.provider.keyURL) + "\n\n")
		s.WriteString(labelStyle.Render("Paste your API key here:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepConfirm:
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("  Provider: " + successStyle.Render(m.provider.name) + "\n")
		s.WriteString("  Model:    " + successStyle.Render(m.provider.model) + "\n")
		s.WriteString("  API Key:  " + successStyle.Render(maskToken(m.apiKey)) + "\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepDone:
		s.WriteString(successStyle.Render("Saved " + m.path))
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	return s.String()
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// Run starts the setup wizard and returns true if a file was written.
func Run(path string) (bool, error) {
	p := tea.NewProgram(New(path))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.step == stepDone, nil
}

// NeedsSetup checks if the env file exists
func NeedsSetup(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
