package app

import (
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/models"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
	"github.com/j-veylop/growth-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// ReportLoadedMsg carries the result of a run started by the UI.
type ReportLoadedMsg struct {
	Report *report.Report
	Err    error
}

// ReportUpdatedMsg tells tabs that State holds a new report.
type ReportUpdatedMsg struct {
	Report *report.Report
}

// RunsLoadedMsg contains the recent run history.
type RunsLoadedMsg struct {
	Runs []models.RunRecord
	Err  error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "report", "boundaries", "runs"
}

// ExportMsg requests writing the report as HTML. An empty path uses the configured one.
type ExportMsg struct {
	Path string
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Path  string
	Error error
}

// CountySortChangedMsg tells tabs the county ordering changed.
type CountySortChangedMsg struct {
	Sort models.CountySort
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
