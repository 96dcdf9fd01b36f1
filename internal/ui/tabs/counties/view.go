package counties

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

// View renders the counties tab.
func (m *Model) View() string {
	rep := m.state.GetReport()
	if rep == nil || rep.Data == nil {
		msg := "No report yet"
		if err := m.state.GetRunError(); err != nil {
			msg = "No county data: " + err.Error()
		}
		return styles.DocStyle.Render(styles.HelpStyle.Render(msg))
	}

	sections := []string{
		styles.TitleStyle.Render("Customer Growth by County"),
		m.renderToolbar(len(rep.Data.Counties)),
		"",
		m.table.View(),
		"",
		m.renderSelected(),
	}

	return styles.DocStyle.
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderToolbar(total int) string {
	parts := []string{
		fmt.Sprintf("Sort: %s", styles.FocusedStyle.Render(m.state.GetCountySort().String())),
		fmt.Sprintf("%d of %d counties", len(m.rows), total),
	}
	toolbar := styles.HelpStyle.Render(strings.Join(parts, "  ·  "))

	if m.filtering || m.filter.Value() != "" {
		return lipgloss.JoinVertical(lipgloss.Left, toolbar, m.filter.View())
	}
	return toolbar
}

func (m *Model) renderSelected() string {
	c, ok := m.Selected()
	if !ok {
		return styles.HelpStyle.Render("No county matches the filter")
	}

	growth := styles.GrowthUndefinedStyle.Render("undefined (no 2023 consumers)")
	if c.HasGrowth() {
		growth = styles.GetGrowthStyle(c.CustomerGrowthPct).Render(formatGrowth(c))
	}

	status := m.selectedStatus()
	lines := []string{
		styles.CardTitleStyle.Render(fmt.Sprintf("%s County (%s)", c.County, c.FIPS)),
		fmt.Sprintf("Consumers  %s → %s  (%+d)",
			humanize.Comma(c.Consumers2023), humanize.Comma(c.Consumers2024), c.ConsumerDelta()),
		"Growth     " + growth,
		"Map        " + status.String(),
	}
	return styles.CardStyle.Width(max(m.width-6, 40)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
