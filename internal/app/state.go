// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/models"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Resource names used for loading state.
const (
	ResourceInitial = "initial"
	ResourceReport  = "report"
	ResourceRuns    = "runs"
	ResourceExport  = "export"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Report  bool
	Runs    bool
	Export  bool
}

// State is shared by the root model and every tab.
type State struct {
	mu sync.RWMutex

	Report *report.Report
	// RunErr is the error of the most recent run. The previous report stays
	// visible while it is set.
	RunErr error
	Runs   []models.RunRecord

	CountySort models.CountySort

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial state.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceReport:
		s.Loading.Report = loading
	case ResourceRuns:
		s.Loading.Runs = loading
	case ResourceExport:
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Report ||
		s.Loading.Runs ||
		s.Loading.Export
}

// IsInitialLoading returns true if the first run has not finished.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.Loading.Report {
		resources = append(resources, ResourceReport)
	}
	if s.Loading.Runs {
		resources = append(resources, ResourceRuns)
	}
	if s.Loading.Export {
		resources = append(resources, ResourceExport)
	}
	return resources
}

// SetReport stores a new report and clears the run error.
func (s *State) SetReport(rep *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Report = rep
	s.RunErr = nil
	s.LastUpdated = time.Now()
}

// GetReport returns the current report, or nil before the first successful run.
func (s *State) GetReport() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Report
}

// SetRunError records a failed run.
func (s *State) SetRunError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RunErr = err
}

// GetRunError returns the error of the most recent run.
func (s *State) GetRunError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RunErr
}

// SetRuns replaces the run history.
func (s *State) SetRuns(runs []models.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Runs = runs
}

// GetRuns returns a copy of the run history.
func (s *State) GetRuns() []models.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]models.RunRecord, len(s.Runs))
	copy(runs, s.Runs)
	return runs
}

// GetCountySort returns the county table ordering.
func (s *State) GetCountySort() models.CountySort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CountySort
}

// SetCountySort sets the county table ordering.
func (s *State) SetCountySort(sort models.CountySort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CountySort = sort
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the time of the last successful run.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
