package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(g FieldGroup, s string) FieldGroup {
	for _, r := range s {
		g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return g
}

func TestFieldGroupNavigation(t *testing.T) {
	g := NewFieldGroup(
		NewTextField("URL", "https://"),
		NewSecretField("Key", "sk_"),
		NewConfirmField("Private?", true),
	)
	require.True(t, g.Fields[0].Focused())

	g = typeInto(g, " https://x.supabase.co ")
	assert.Equal(t, "https://x.supabase.co", g.Value(0))

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, g.Focus())
	assert.False(t, g.Fields[0].Focused())
	assert.True(t, g.Fields[1].Focused())

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, g.Focus(), "enter on a middle field moves on")

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, g.Focus(), "focus wraps around")

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, g.Focus())

	g, cmd := g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(FieldSubmitMsg)
	require.True(t, ok, "enter on the last field submits")
	assert.Equal(t, "", msg.Value)

	assert.Equal(t, "", g.Value(7))
}

func TestFieldErrors(t *testing.T) {
	g := NewFieldGroup(NewTextField("A", ""), NewTextField("B", ""))
	g.SetError(1, "required")
	assert.Contains(t, g.View(), "required")
	g.ClearErrors()
	assert.NotContains(t, g.View(), "required")
}

func TestConfirmValue(t *testing.T) {
	f := NewConfirmField("Private?", true)
	assert.True(t, f.ConfirmValue(true))
	f.SetValue("n")
	assert.False(t, f.ConfirmValue(true))
	f.SetValue("YES")
	assert.True(t, f.ConfirmValue(false))
}

func TestAPIValidatorStates(t *testing.T) {
	v := NewAPIValidator("Checking keys", "Keys verified")
	assert.Empty(t, v.View())

	require.NotNil(t, v.Start())
	assert.True(t, v.Active())
	assert.Contains(t, v.View(), "Checking keys")

	v.HandleResult(false, "Invalid keys. Double-check them.")
	assert.False(t, v.Active())
	assert.Contains(t, v.View(), "Invalid keys. Double-check them.")

	v.HandleResult(true, "")
	assert.Contains(t, v.View(), "Keys verified")

	v.Reset()
	assert.Empty(t, v.View())
}

func TestStepIndicator(t *testing.T) {
	s := NewStepIndicator([]Step{{Name: "Auth"}, {Name: "Database"}, {Name: "Connect"}, {Name: "Deploy"}})
	assert.Empty(t, s.View(), "no width yet")

	s.SetWidth(80)
	s.SetDone(0, true)
	s.SetCurrent(1)
	out := s.View()
	assert.Contains(t, out, "Step 2/4: Database")
	assert.Contains(t, out, "Deploy")

	s.SetCurrent(9)
	assert.Equal(t, 1, s.Current)
}
