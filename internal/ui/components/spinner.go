package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

// LoadingSpinner is a dot spinner followed by a label.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
}

// NewSpinner creates a spinner showing label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return LoadingSpinner{spinner: s, label: label}
}

// Init starts the tick loop.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner and its label.
func (l LoadingSpinner) View() string {
	return l.spinner.View() + " " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(l.label)
}

// RenderSpinnerCentered centers the spinner in a width x height box. Pending
// resources, if any, are listed under it.
func RenderSpinnerCentered(s LoadingSpinner, width, height int, pending ...string) string {
	content := s.View()
	if len(pending) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Center,
			content,
			styles.HelpStyle.Render("waiting on "+strings.Join(pending, ", ")),
		)
	}
	return styles.CenterBoth(content, width, height)
}
