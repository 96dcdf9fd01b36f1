// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/growth-dashboard-tui/internal/report"
	"github.com/j-veylop/growth-dashboard-tui/internal/services"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabReport shows the summary and the three charts.
	TabReport TabID = iota
	// TabCounties lists the county growth table.
	TabCounties
	// TabNotes shows notes, run history and configuration.
	TabNotes
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabReport:
		return "Report"
	case TabCounties:
		return "Counties"
	case TabNotes:
		return "Notes"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that take text input. While
// CapturesInput returns true, global keys other than ctrl+c go to the tab.
type InputCapturer interface {
	CapturesInput() bool
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model
	help    help.Model

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	// Create shared state
	state := NewState()

	// Create model
	m := &Model{
		activeTab: TabReport,
		tabNames:  []string{TabReport.String(), TabCounties.String(), TabNotes.String()},
		tabs:      make([]Tab, 3), // set by SetTabs
		state:     state,
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
		help:      help.New(),
		showHelp:  false,
		ready:     false,
	}

	return m
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Building report...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		cmds = append(cmds, loadInitialData(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case ReportUpdatedMsg, RunsLoadedMsg, CountySortChangedMsg:
		// Every tab caches something derived from these.
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
		cmds = append(cmds, m.updateAllTabs(msg)...)
		return m, tea.Batch(cmds...)

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		if m.activeTabCapturesInput() && msg.Type != tea.KeyCtrlC {
			return nil
		}
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		cmds = append(cmds, m.handleTick())
	case SubscriptionEventMsg:
		cmds = append(cmds, m.handleSubscriptionEvent(msg)...)
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case ReportLoadedMsg:
		cmds = append(cmds, m.handleReportLoaded(msg)...)
	case RunsLoadedMsg:
		m.handleRunsLoaded(msg)
	case ExportMsg:
		cmds = append(cmds, m.handleExport(msg)...)
	case ExportResultMsg:
		cmds = append(cmds, m.handleExportResult(msg)...)
	case CountySortChangedMsg:
		m.state.SetCountySort(msg.Sort)
	case AddNotificationMsg:
		cmds = append(cmds, m.handleAddNotification(msg)...)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.handleStartLoading(msg)
	case StopLoadingMsg:
		m.handleStopLoading(msg)
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(msg.Error.Error()))
	case RefreshMsg:
		cmds = append(cmds, m.handleRefresh(msg)...)
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleTick() tea.Cmd {
	m.state.ClearExpiredNotifications()
	return defaultTickCmd()
}

func (m *Model) handleSubscriptionEvent(msg SubscriptionEventMsg) []tea.Cmd {
	m.eventChannel = msg.Channel
	return []tea.Cmd{waitForServiceEventCmd(m.eventChannel)}
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

// handleReportLoaded finishes a run the UI started.
func (m *Model) handleReportLoaded(msg ReportLoadedMsg) []tea.Cmd {
	initial := m.state.IsInitialLoading()
	m.state.SetLoading(ResourceInitial, false)
	m.state.SetLoading(ResourceReport, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}

	var cmds []tea.Cmd
	if m.services != nil {
		cmds = append(cmds, loadRunsCmd(m.services))
	}

	if msg.Err != nil {
		m.state.SetRunError(msg.Err)
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("Run failed: %v", msg.Err)))
		return cmds
	}

	cmds = append(cmds, m.setReport(msg.Report))
	switch failed := msg.Report.Failed(); {
	case len(failed) > 0:
		cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("Charts unavailable: %s", strings.Join(failed, ", "))))
	case !initial:
		cmds = append(cmds, notifySuccessCmd("Report rebuilt"))
	}
	return cmds
}

func (m *Model) setReport(rep *report.Report) tea.Cmd {
	m.state.SetReport(rep)
	return func() tea.Msg { return ReportUpdatedMsg{Report: rep} }
}

func (m *Model) handleRunsLoaded(msg RunsLoadedMsg) {
	m.state.SetLoading(ResourceRuns, false)
	if msg.Err == nil {
		m.state.SetRuns(msg.Runs)
	}
}

func (m *Model) handleExport(msg ExportMsg) []tea.Cmd {
	if m.services == nil {
		return nil
	}
	if m.state.GetReport() == nil {
		return []tea.Cmd{notifyWarningCmd("Nothing to export yet")}
	}
	m.state.SetLoading(ResourceExport, true)
	m.state.SetLoadingNotification("Exporting...")
	return []tea.Cmd{exportCmd(m.services, msg.Path)}
}

func (m *Model) handleExportResult(msg ExportResultMsg) []tea.Cmd {
	m.state.SetLoading(ResourceExport, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
	if msg.Error != nil {
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Export failed: %v", msg.Error))}
	}
	return []tea.Cmd{notifySuccessCmd(fmt.Sprintf("Report written to %s", msg.Path))}
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	var cmds []tea.Cmd
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
	}
	return cmds
}

func (m *Model) handleStartLoading(msg StartLoadingMsg) {
	m.state.SetLoading(msg.Resource, true)
	m.state.SetLoadingNotification("Rebuilding...")
}

func (m *Model) handleStopLoading(msg StopLoadingMsg) {
	m.state.SetLoading(msg.Resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleRefresh(msg RefreshMsg) []tea.Cmd {
	if m.services == nil {
		return nil
	}

	switch msg.Resource {
	case "report":
		m.handleStartLoading(StartLoadingMsg{Resource: ResourceReport})
		return []tea.Cmd{runCmd(m.services, services.TriggerManual)}
	case "boundaries":
		m.handleStartLoading(StartLoadingMsg{Resource: ResourceReport})
		m.state.SetLoadingNotification("Fetching boundaries...")
		return []tea.Cmd{refreshBoundariesCmd(m.services)}
	case "runs":
		m.state.SetLoading(ResourceRuns, true)
		return []tea.Cmd{loadRunsCmd(m.services)}
	}
	return nil
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) activeTabCapturesInput() bool {
	if int(m.activeTab) >= len(m.tabs) {
		return false
	}
	c, ok := m.tabs[m.activeTab].(InputCapturer)
	return ok && c.CapturesInput()
}

func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := max(m.height-chromeHeight, 0)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(id TabID) {
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	// Global keybindings (work regardless of tab)
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil

	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabReport)
		return nil

	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabCounties)
		return nil

	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabNotes)
		return nil

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp {
			m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		}
		return nil

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp {
			m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		}
		return nil

	case key.Matches(msg, m.keymap.Refresh):
		return batchMsgs(m.handleRefresh(RefreshMsg{Resource: "report"}))

	case key.Matches(msg, m.keymap.Boundaries):
		return batchMsgs(m.handleRefresh(RefreshMsg{Resource: "boundaries"}))

	case key.Matches(msg, m.keymap.Export):
		return batchMsgs(m.handleExport(ExportMsg{}))

	case key.Matches(msg, m.keymap.Close):
		if m.showHelp {
			m.showHelp = false
			return nil
		}
	}

	// Let the tab handle other keys
	return nil
}

func batchMsgs(cmds []tea.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// handleServiceEvent reacts to runs the UI did not start. Runs started from
// the UI are finished by handleReportLoaded, so only the state is updated here.
func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.ReportUpdatedEvent:
		if e.Trigger != services.TriggerFile {
			return nil
		}
		return tea.Batch(
			m.setReport(e.Report),
			notifyInfoCmd("Data changed, report rebuilt"),
			m.reloadRuns(),
		)

	case services.RunFailedEvent:
		if e.Trigger != services.TriggerFile {
			return nil
		}
		m.state.SetRunError(e.Err)
		return tea.Batch(
			notifyErrorCmd(fmt.Sprintf("Run failed: %v", e.Err)),
			m.reloadRuns(),
		)

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

func (m *Model) reloadRuns() tea.Cmd {
	if m.services == nil {
		return nil
	}
	return loadRunsCmd(m.services)
}
