package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// DocViewModel shows a markdown document in a scrollable viewport.
type DocViewModel struct {
	Viewport   viewport.Model
	markdown   string
	rendered   string // cached glamour output; empty means not yet rendered
	mdRenderer *glamour.TermRenderer
	ready      bool
	width      int
	height     int
}

// NewDocView creates an empty document view.
func NewDocView() DocViewModel {
	return DocViewModel{}
}

// SetSize sets the viewport dimensions and re-renders at the new width.
func (m *DocViewModel) SetSize(w, h int) {
	if !m.ready {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.Viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = h
	}
	if w != m.width {
		m.mdRenderer = nil
		m.rendered = ""
	}
	m.width, m.height = w, h
	m.refresh()
}

// SetMarkdown replaces the document.
func (m *DocViewModel) SetMarkdown(md string) {
	m.markdown = md
	m.rendered = ""
	m.refresh()
	if m.ready {
		m.Viewport.GotoTop()
	}
}

// Update handles scrolling.
func (m DocViewModel) Update(msg tea.Msg) (DocViewModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View renders the visible part of the document.
func (m DocViewModel) View() string {
	if !m.ready {
		return ""
	}
	return m.Viewport.View()
}

func (m *DocViewModel) refresh() {
	if !m.ready {
		return
	}
	if m.rendered == "" && m.markdown != "" {
		m.rendered = m.render(m.markdown)
	}
	m.Viewport.SetContent(m.rendered)
}

func (m *DocViewModel) render(md string) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.width),
		)
		if err != nil {
			return md
		}
		m.mdRenderer = r
	}
	out, err := m.mdRenderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
