package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"launchpad/internal/adapter/tui/theme"
)

// FieldSubmitMsg is sent when Enter is pressed in a form field.
type FieldSubmitMsg struct {
	Value string
}

// FormFieldModel wraps a textinput for the wizard forms (text, secret, confirm).
type FormFieldModel struct {
	Input       textinput.Model
	Label       string
	Description string
	IsSecret    bool
	IsConfirm   bool // y/n field
	ErrMsg      string
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = width
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	return ti
}

// NewTextField creates a text input field. Fields start blurred.
func NewTextField(label, placeholder string) FormFieldModel {
	return FormFieldModel{Input: newInput(placeholder, 50), Label: label}
}

// NewSecretField creates a masked input field for keys and tokens.
func NewSecretField(label, placeholder string) FormFieldModel {
	ti := newInput(placeholder, 50)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return FormFieldModel{Input: ti, Label: label, IsSecret: true}
}

// NewConfirmField creates a yes/no field.
func NewConfirmField(label string, defaultYes bool) FormFieldModel {
	placeholder := "y/N"
	if defaultYes {
		placeholder = "Y/n"
	}
	ti := newInput(placeholder, 10)
	ti.CharLimit = 3
	return FormFieldModel{Input: ti, Label: label, IsConfirm: true}
}

// Focus gives the field keyboard focus.
func (m *FormFieldModel) Focus() tea.Cmd {
	return m.Input.Focus()
}

// Blur removes keyboard focus.
func (m *FormFieldModel) Blur() {
	m.Input.Blur()
}

// Focused reports whether the field has keyboard focus.
func (m FormFieldModel) Focused() bool {
	return m.Input.Focused()
}

// SetValue replaces the field content.
func (m *FormFieldModel) SetValue(v string) {
	m.Input.SetValue(v)
}

// SetError displays a validation error message.
func (m *FormFieldModel) SetError(msg string) {
	m.ErrMsg = msg
}

// ClearError clears the validation error.
func (m *FormFieldModel) ClearError() {
	m.ErrMsg = ""
}

// Value returns the trimmed input value.
func (m FormFieldModel) Value() string {
	return strings.TrimSpace(m.Input.Value())
}

// ConfirmValue interprets the input as a boolean.
func (m FormFieldModel) ConfirmValue(defaultYes bool) bool {
	v := strings.ToLower(m.Value())
	if v == "" {
		return defaultYes
	}
	return v == "y" || v == "yes"
}

// Update handles input events. Enter emits FieldSubmitMsg.
func (m FormFieldModel) Update(msg tea.Msg) (FormFieldModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		value := m.Value()
		return m, func() tea.Msg {
			return FieldSubmitMsg{Value: value}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// View renders the form field.
func (m FormFieldModel) View() string {
	label := theme.Bold.Render(m.Label)
	if !m.Focused() {
		label = theme.TextMuted.Render(m.Label)
	}

	parts := []string{label}
	if m.Description != "" {
		parts = append(parts, theme.TextMuted.Render(m.Description))
	}
	parts = append(parts, m.Input.View())

	if m.ErrMsg != "" {
		parts = append(parts, theme.TextError.Render(theme.SymbolError+" "+m.ErrMsg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
