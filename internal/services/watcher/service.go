// Package watcher reports changes to the dashboard's data files.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Event represents a watcher event.
type Event struct {
	Type EventType
	// Path is the last file that changed before the debounce fired.
	Path  string
	Error error
}

// EventType defines the type of watcher event.
type EventType int

const (
	EventDataChanged EventType = iota
	EventError
)

// Service watches a fixed set of files. Directories are watched rather than
// the files themselves so that atomic replace-by-rename is seen.
type Service struct {
	mu            sync.Mutex
	files         map[string]struct{}
	dirs          []string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer *time.Timer
}

// New starts watching paths. Missing files are fine as long as their
// directory exists.
func New(debounce time.Duration, paths ...string) (*Service, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	s := &Service{
		files:     make(map[string]struct{}, len(paths)),
		debounce:  debounce,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		s.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			s.dirs = append(s.dirs, dir)
		}
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Dirs returns the watched directories.
func (s *Service) Dirs() []string {
	out := make([]string, len(s.dirs))
	copy(out, s.dirs)
	return out
}

func (s *Service) startWatcher() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = w

	for _, dir := range s.dirs {
		if err := w.Add(dir); err != nil {
			if closeErr := w.Close(); closeErr != nil {
				logger.Error("failed to close watcher", "error", closeErr)
			}
			return err
		}
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !s.watched(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			path := event.Name
			s.mu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(s.debounce, func() {
				logger.Debug("Data file changed", "path", path)
				s.sendEvent(Event{Type: EventDataChanged, Path: path})
			})
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := s.files[abs]
	return ok
}

// sendEvent sends an event without blocking, dropping the oldest queued
// event when the channel is full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher.
func (s *Service) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
