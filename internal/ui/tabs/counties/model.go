// Package counties provides the county growth table tab.
package counties

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/growth-dashboard-tui/internal/app"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the counties tab.
type keyMap struct {
	Sort   key.Binding
	Filter key.Binding
	Clear  key.Binding
	Apply  key.Binding
}

// defaultKeyMap returns the default key bindings for the counties tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter by name"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
	}
}

var fixedColumns = []table.Column{
	{Title: "FIPS", Width: 7},
	{Title: "2023", Width: 10},
	{Title: "2024", Width: 10},
	{Title: "Change", Width: 9},
	{Title: "Growth", Width: 9},
	{Title: "Map", Width: 12},
}

// Model represents the counties tab state.
type Model struct {
	state     *app.State
	table     table.Model
	filter    textinput.Model
	filtering bool
	keys      keyMap
	width     int
	height    int

	// rows backs the table rows in display order; statuses is parallel to it.
	rows     []models.CountyRecord
	statuses []report.MatchStatus
}

// New creates a new counties tab.
func New(state *app.State) *Model {
	filter := textinput.New()
	filter.Placeholder = "county name..."
	filter.Prompt = "/ "
	filter.CharLimit = 64
	filter.Width = 30

	t := table.New(
		table.WithColumns(columns(24)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		state:  state,
		table:  t,
		filter: filter,
		keys:   defaultKeyMap(),
	}
	m.updateTableData()
	return m
}

func columns(nameWidth int) []table.Column {
	cols := make([]table.Column, 0, len(fixedColumns)+1)
	cols = append(cols, table.Column{Title: "County", Width: nameWidth})
	return append(cols, fixedColumns...)
}

// Init initializes the counties tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the counties tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if m.filtering {
		return m.updateFilter(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Sort):
			next := m.state.GetCountySort().Next()
			return m, func() tea.Msg {
				return app.CountySortChangedMsg{Sort: next}
			}

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink

		case key.Matches(msg, m.keys.Clear):
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.updateTableData()
			}

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case app.ReportUpdatedMsg, app.CountySortChangedMsg:
		m.updateTableData()
	}

	return m, nil
}

// updateFilter handles keys while the filter input is focused. The table
// follows the input as it is typed.
func (m *Model) updateFilter(msg tea.Msg) (app.Tab, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Apply):
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.updateTableData()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.updateTableData()
	return m, cmd
}

// updateTableData rebuilds the rows from the current report, sort and filter.
func (m *Model) updateTableData() {
	rep := m.state.GetReport()
	if rep == nil || rep.Data == nil {
		m.rows = nil
		m.statuses = nil
		m.table.SetRows(nil)
		return
	}

	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	counties := rep.Data.Counties
	order := models.SortCountyOrder(counties, m.state.GetCountySort())

	m.rows = m.rows[:0]
	m.statuses = m.statuses[:0]
	rows := make([]table.Row, 0, len(order))
	for _, i := range order {
		c := counties[i]
		if query != "" && !strings.Contains(strings.ToLower(c.County), query) {
			continue
		}
		status := rep.CountyStatus(i)
		m.rows = append(m.rows, c)
		m.statuses = append(m.statuses, status)
		rows = append(rows, countyRow(c, status))
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func countyRow(c models.CountyRecord, status report.MatchStatus) table.Row {
	return table.Row{
		c.County,
		c.FIPS,
		humanize.Comma(c.Consumers2023),
		humanize.Comma(c.Consumers2024),
		fmt.Sprintf("%+d", c.ConsumerDelta()),
		formatGrowth(c),
		status.String(),
	}
}

func formatGrowth(c models.CountyRecord) string {
	if !c.HasGrowth() {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", c.CustomerGrowthPct)
}

// Selected returns the county under the cursor.
func (m *Model) Selected() (models.CountyRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return models.CountyRecord{}, false
	}
	return m.rows[i], true
}

func (m *Model) selectedStatus() report.MatchStatus {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.statuses) {
		return report.StatusUnknown
	}
	return m.statuses[i]
}

// SetSize sets the available size for the counties tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-10, 3))

	fixed := 0
	for _, c := range fixedColumns {
		fixed += c.Width + 2
	}
	m.table.SetColumns(columns(min(max(width-fixed-8, 16), 36)))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.filtering {
		return []key.Binding{m.keys.Apply, m.keys.Clear}
	}
	return []key.Binding{m.keys.Sort, m.keys.Filter, m.keys.Clear}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Sort, m.keys.Filter},
		{m.keys.Apply, m.keys.Clear},
	}
}

// CapturesInput reports whether the filter input is focused.
func (m *Model) CapturesInput() bool {
	return m.filtering
}
