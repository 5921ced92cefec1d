package wizard

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"launchpad/internal/adapter/tui/theme"
)

// APIValidatorModel shows a spinner while credentials are being checked and
// the verdict afterwards.
type APIValidatorModel struct {
	Spinner     spinner.Model
	Action      string // e.g. "Testing connection"
	SuccessText string // e.g. "Connected"
	Validating  bool
	Success     bool
	ErrMsg      string
}

// NewAPIValidator creates a validator with the given progress and success labels.
func NewAPIValidator(action, successText string) APIValidatorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	return APIValidatorModel{
		Spinner:     s,
		Action:      action,
		SuccessText: successText,
	}
}

// Start begins the validation animation.
func (m *APIValidatorModel) Start() tea.Cmd {
	m.Validating = true
	m.Success = false
	m.ErrMsg = ""
	return m.Spinner.Tick
}

// HandleResult records a verdict. An empty errMsg means success.
func (m *APIValidatorModel) HandleResult(success bool, errMsg string) {
	m.Validating = false
	m.Success = success
	m.ErrMsg = ""
	if !success {
		m.ErrMsg = errMsg
	}
}

// Reset clears the validator state.
func (m *APIValidatorModel) Reset() {
	m.Validating = false
	m.Success = false
	m.ErrMsg = ""
}

// Active reports whether there is anything to show.
func (m APIValidatorModel) Active() bool {
	return m.Validating || m.Success || m.ErrMsg != ""
}

// Update handles spinner ticks.
func (m APIValidatorModel) Update(msg tea.Msg) (APIValidatorModel, tea.Cmd) {
	if m.Validating {
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the validation state.
func (m APIValidatorModel) View() string {
	if m.Validating {
		return m.Spinner.View() + " " + m.Action + theme.SymbolEllipsis
	}
	if m.Success {
		return theme.TextSuccess.Render(theme.SymbolSuccess + " " + m.SuccessText)
	}
	if m.ErrMsg != "" {
		return theme.TextError.Render(theme.SymbolError+" "+m.ErrMsg) +
			"\n" + theme.TextMuted.Render("  Fix the values and press Enter to try again")
	}
	return ""
}
