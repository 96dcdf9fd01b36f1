// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/db"
	"github.com/j-veylop/growth-dashboard-tui/internal/export"
	"github.com/j-veylop/growth-dashboard-tui/internal/geo"
	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
	"github.com/j-veylop/growth-dashboard-tui/internal/pipeline"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
	"github.com/j-veylop/growth-dashboard-tui/internal/services/watcher"
)

// runHistoryLimit is the number of run records kept in the database.
const runHistoryLimit = 50

// ErrNoReport is returned when an export is requested before any run succeeded.
var ErrNoReport = errors.New("no report available")

// ErrClosed is returned by runs requested after Close.
var ErrClosed = errors.New("manager closed")

// Trigger says what started a run.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerManual   Trigger = "manual"
	TriggerFile     Trigger = "file change"
	TriggerBoundary Trigger = "boundary refresh"
)

type (
	// ReportUpdatedEvent is emitted when a run produced a new report.
	ReportUpdatedEvent struct {
		Report  *report.Report
		Trigger Trigger
	}

	// RunFailedEvent is emitted when a run stopped on a load or derivation error.
	RunFailedEvent struct {
		Err     error
		Trigger Trigger
	}

	// ExportedEvent is emitted after the report was written as HTML.
	ExportedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in a background service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ReportUpdatedEvent) isServiceEvent() {}
func (RunFailedEvent) isServiceEvent()     {}
func (ExportedEvent) isServiceEvent()      {}
func (ErrorEvent) isServiceEvent()         {}

// Manager owns the pipeline inputs and routes run results to subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	database    *db.DB
	provider    *geo.Provider
	watcher     *watcher.Service
	opts        pipeline.Options
	stopChan    chan struct{}
	stopOnce    sync.Once
	subscribers []chan<- ServiceEvent

	// runMu serializes runs so reports are published in order.
	runMu   sync.Mutex
	latest  *report.Report
	lastErr error

	notify func(title, body string) error
}

// NewManager creates a new service manager. The first run is not started;
// call Run once subscribers are in place.
func NewManager(cfg *config.Config) (*Manager, error) {
	return newManager(cfg, func(title, body string) error {
		return beeep.Notify(title, body, "")
	})
}

func newManager(cfg *config.Config, notify func(title, body string) error) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		stopChan: make(chan struct{}),
		notify:   notify,
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.provider = geo.NewProvider(
		geo.NewFetcher(nil, cfg.GeoFetchTimeout),
		m.database,
		cfg.GeoJSONURL,
		cfg.GeoCacheTTL,
	)
	m.opts = pipeline.OptionsFromConfig(cfg, m.provider, m.database)

	if cfg.WatchData {
		m.watcher, err = watcher.New(watcher.DefaultDebounce, m.opts.Paths.All()...)
		if err != nil {
			logger.Warn("Data file watching disabled", "error", err)
			m.watcher = nil
		} else {
			go m.routeEvents()
		}
	}

	return m, nil
}

// routeEvents turns data file changes into runs.
func (m *Manager) routeEvents() {
	for {
		select {
		case event, ok := <-m.watcher.Events():
			if !ok {
				return
			}
			m.handleWatcherEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleWatcherEvent(event watcher.Event) {
	switch event.Type {
	case watcher.EventDataChanged:
		logger.Info("Data changed, rebuilding report", "path", event.Path)
		_, _ = m.run(context.Background(), TriggerFile)

	case watcher.EventError:
		m.broadcast(ErrorEvent{Service: "watcher", Error: event.Error})
	}
}

// Run executes the pipeline and publishes the result.
func (m *Manager) Run(ctx context.Context, trigger Trigger) (*report.Report, error) {
	return m.run(ctx, trigger)
}

// RefreshBoundaries refetches the county boundaries regardless of cache age
// and rebuilds the report. The rebuild uses the outcome of that one fetch.
func (m *Manager) RefreshBoundaries(ctx context.Context) (*report.Report, error) {
	ref, err := m.provider.Refresh(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "boundaries", Error: err})
	}
	opts := m.opts
	opts.Boundaries = resolvedBoundaries{ref: ref, err: err}
	return m.runWith(ctx, TriggerBoundary, opts)
}

// resolvedBoundaries hands the pipeline a reference that was already fetched.
type resolvedBoundaries struct {
	ref *models.BoundaryReference
	err error
}

func (r resolvedBoundaries) Reference(context.Context) (*models.BoundaryReference, error) {
	return r.ref, r.err
}

func (m *Manager) run(ctx context.Context, trigger Trigger) (*report.Report, error) {
	return m.runWith(ctx, trigger, m.opts)
}

func (m *Manager) runWith(ctx context.Context, trigger Trigger, opts pipeline.Options) (*report.Report, error) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	select {
	case <-m.stopChan:
		return nil, ErrClosed
	default:
	}

	rep, err := pipeline.Run(ctx, opts)

	m.mu.Lock()
	prevErr := m.lastErr
	m.lastErr = err
	if err == nil {
		m.latest = rep
	}
	m.mu.Unlock()

	m.pruneHistory(ctx)

	if err != nil {
		m.broadcast(RunFailedEvent{Err: err, Trigger: trigger})
		if prevErr == nil {
			m.sendNotification("Growth report failed", err.Error())
		}
		return nil, err
	}

	m.broadcast(ReportUpdatedEvent{Report: rep, Trigger: trigger})
	if trigger == TriggerFile {
		m.sendNotification("Growth report updated", summaryLine(rep))
	}
	return rep, nil
}

func (m *Manager) pruneHistory(ctx context.Context) {
	if m.database == nil {
		return
	}
	if _, err := m.database.PruneRuns(ctx, runHistoryLimit); err != nil {
		logger.Warn("Failed to prune run history", "error", err)
	}
}

func (m *Manager) sendNotification(title, body string) {
	if m.cfg == nil || !m.cfg.DesktopNotify || m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("Desktop notification failed", "error", err)
	}
}

func summaryLine(rep *report.Report) string {
	if failed := rep.Failed(); len(failed) > 0 {
		return fmt.Sprintf("Charts unavailable: %v", failed)
	}
	return fmt.Sprintf("Revenue change %+.1f%%, %d counties growing",
		rep.Summary.RevenueChangePct, rep.Summary.CountiesGrowing)
}

// Latest returns the last successful report and the error of the last run,
// if that run failed.
func (m *Manager) Latest() (*report.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.lastErr
}

// Export writes the latest report as HTML. An empty path uses the
// configured report path.
func (m *Manager) Export(path string) (string, error) {
	if path == "" && m.cfg != nil {
		path = m.cfg.ReportPath
	}

	m.mu.RLock()
	rep := m.latest
	m.mu.RUnlock()
	if rep == nil {
		return "", ErrNoReport
	}

	if err := export.WriteFile(path, rep); err != nil {
		m.broadcast(ErrorEvent{Service: "export", Error: err})
		return "", err
	}
	m.broadcast(ExportedEvent{Path: path})
	return path, nil
}

// RecentRuns returns the most recent run records, newest first.
func (m *Manager) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.RecentRuns(ctx, limit)
}

// Config returns the configuration the manager was created with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Watching reports whether data files are being watched.
func (m *Manager) Watching() bool {
	return m.watcher != nil
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.stopOnce.Do(func() {
		if m.stopChan != nil {
			close(m.stopChan)
		}

		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		// Wait for an in-flight run before closing the database under it.
		m.runMu.Lock()
		defer m.runMu.Unlock()

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
