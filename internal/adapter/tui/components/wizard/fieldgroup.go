package wizard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FieldGroup is a vertical form with one focused field. Tab and the arrow
// keys move focus; Enter moves to the next field, or submits from the last.
type FieldGroup struct {
	Fields []FormFieldModel
	focus  int
}

// NewFieldGroup focuses the first field.
func NewFieldGroup(fields ...FormFieldModel) FieldGroup {
	g := FieldGroup{Fields: fields}
	if len(fields) > 0 {
		g.Fields[0].Focus()
	}
	return g
}

// Focus returns the index of the focused field.
func (g FieldGroup) Focus() int { return g.focus }

// Value returns the trimmed value of field i.
func (g FieldGroup) Value(i int) string {
	if i < 0 || i >= len(g.Fields) {
		return ""
	}
	return g.Fields[i].Value()
}

// SetFocus moves focus to field i.
func (g *FieldGroup) SetFocus(i int) tea.Cmd {
	if i < 0 || i >= len(g.Fields) {
		return nil
	}
	g.Fields[g.focus].Blur()
	g.focus = i
	return g.Fields[i].Focus()
}

// SetError shows msg under field i.
func (g *FieldGroup) SetError(i int, msg string) {
	if i >= 0 && i < len(g.Fields) {
		g.Fields[i].SetError(msg)
	}
}

// ClearErrors removes every field error.
func (g *FieldGroup) ClearErrors() {
	for i := range g.Fields {
		g.Fields[i].ClearError()
	}
}

// Update routes navigation keys and passes the rest to the focused field.
func (g FieldGroup) Update(msg tea.Msg) (FieldGroup, tea.Cmd) {
	if len(g.Fields) == 0 {
		return g, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		last := len(g.Fields) - 1
		switch key.Type {
		case tea.KeyTab, tea.KeyDown:
			return g, g.SetFocus((g.focus + 1) % len(g.Fields))
		case tea.KeyShiftTab, tea.KeyUp:
			return g, g.SetFocus((g.focus + last) % len(g.Fields))
		case tea.KeyEnter:
			if g.focus < last {
				return g, g.SetFocus(g.focus + 1)
			}
		}
	}

	var cmd tea.Cmd
	g.Fields[g.focus], cmd = g.Fields[g.focus].Update(msg)
	return g, cmd
}

// View renders the fields one under the other.
func (g FieldGroup) View() string {
	parts := make([]string, 0, 2*len(g.Fields))
	for i, f := range g.Fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, f.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
