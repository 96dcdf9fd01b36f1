// Package info provides the notes tab: the report's narrative notes, the
// recent run history and the active configuration.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/j-veylop/growth-dashboard-tui/internal/app"
	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
)

// keyMap defines the key bindings specific to the notes tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// defaultKeyMap returns the default key bindings for the notes tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// Model represents the notes tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	// notes caches the rendered markdown for notesSrc at notesWidth.
	notes      string
	notesSrc   string
	notesWidth int
}

// New creates a new notes tab.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the notes tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the notes tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case app.ReportUpdatedMsg:
		m.notesSrc = ""
	}

	return m, nil
}

// notesSource returns the markdown shown at the top of the tab. The report's
// notes win over the configured theme so the tab matches the exported page.
func (m *Model) notesSource() string {
	if rep := m.state.GetReport(); rep != nil && rep.Notes != "" {
		return rep.Notes
	}
	if m.config != nil {
		return m.config.Theme.Notes
	}
	return ""
}

// renderNotes renders markdown through glamour, reusing the last result
// while neither the text nor the width changed.
func (m *Model) renderNotes(width int) string {
	src := m.notesSource()
	if src == m.notesSrc && width == m.notesWidth && m.notes != "" {
		return m.notes
	}

	m.notesSrc = src
	m.notesWidth = width
	m.notes = src

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Warn("Notes renderer unavailable", "error", err)
		return m.notes
	}
	out, err := r.Render(src)
	if err != nil {
		logger.Warn("Failed to render notes", "error", err)
		return m.notes
	}
	m.notes = out
	return m.notes
}

// SetSize sets the available size for the notes tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Top, m.keys.Bottom},
	}
}
