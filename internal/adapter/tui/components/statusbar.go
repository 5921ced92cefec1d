// Package components holds TUI widgets shared across screens.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"launchpad/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "Enter"
	Desc string // e.g. "Verify"
}

// StatusBarModel renders a bottom line with keybinding hints on the left and
// the backend address plus a short status on the right.
type StatusBarModel struct {
	Hints   []KeyHint
	Backend string
	Extra   string // e.g. "Publishing..."
	width   int
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	hints := make([]string, 0, len(m.Hints))
	for _, h := range m.Hints {
		hints = append(hints, theme.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	var right []string
	if m.Backend != "" {
		right = append(right, theme.TextMuted.Render(m.Backend))
	}
	if m.Extra != "" {
		right = append(right, theme.TextInfo.Render(m.Extra))
	}
	r := strings.Join(right, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}

	return theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + r)
}
