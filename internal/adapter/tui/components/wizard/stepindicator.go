// Package wizard provides the form pieces of the setup wizard: the step
// header, input fields and the verification line.
package wizard

import (
	"fmt"
	"strings"

	"launchpad/internal/adapter/tui/theme"
)

// Step is one entry of the step header.
type Step struct {
	Name string
	Done bool
}

// StepIndicatorModel renders "Step 2/4: Database" above a row of step names
// marked done, active or pending.
type StepIndicatorModel struct {
	Steps   []Step
	Current int
	width   int
}

// NewStepIndicator creates a step indicator.
func NewStepIndicator(steps []Step) StepIndicatorModel {
	return StepIndicatorModel{Steps: steps}
}

// SetWidth sets the rendering width.
func (m *StepIndicatorModel) SetWidth(w int) {
	m.width = w
}

// SetCurrent sets the active step index.
func (m *StepIndicatorModel) SetCurrent(i int) {
	if i >= 0 && i < len(m.Steps) {
		m.Current = i
	}
}

// SetDone marks step i as verified or not.
func (m *StepIndicatorModel) SetDone(i int, done bool) {
	if i >= 0 && i < len(m.Steps) {
		m.Steps[i].Done = done
	}
}

// View renders the step indicator.
func (m StepIndicatorModel) View() string {
	if len(m.Steps) == 0 || m.width < 20 {
		return ""
	}

	header := theme.WizardStepActive.Render(
		fmt.Sprintf("Step %d/%d: %s", m.Current+1, len(m.Steps), m.Steps[m.Current].Name),
	)

	parts := make([]string, 0, len(m.Steps))
	for i, s := range m.Steps {
		switch {
		case i == m.Current:
			parts = append(parts, theme.WizardStepActive.Render(theme.SymbolInfo+" "+s.Name))
		case s.Done:
			parts = append(parts, theme.WizardStepDone.Render(theme.SymbolSuccess+" "+s.Name))
		default:
			parts = append(parts, theme.WizardStepPending.Render(theme.SymbolPending+" "+s.Name))
		}
	}
	sep := theme.Dim.Render(" " + theme.SymbolArrowR + " ")
	return header + "\n" + strings.Join(parts, sep)
}
