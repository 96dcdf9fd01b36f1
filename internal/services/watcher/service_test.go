package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T, names ...string) (*Service, []string) {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte("Month\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}

	svc, err := New(20*time.Millisecond, paths...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return svc, paths
}

func waitEvent(t *testing.T, svc *Service, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev := <-svc.Events():
		return ev, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestNew_NoPaths(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for empty path list")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "revenue.csv")
	if _, err := New(0, path); err == nil {
		t.Error("expected error when the directory does not exist")
	}
}

func TestNew_SharedDirectory(t *testing.T) {
	svc, _ := newTestService(t, "revenue.csv", "energy_delivery.csv")
	if got := len(svc.Dirs()); got != 1 {
		t.Errorf("expected 1 watched directory, got %d", got)
	}
}

func TestWatch_DataChanged(t *testing.T) {
	svc, paths := newTestService(t, "revenue.csv", "energy_delivery.csv")

	if err := os.WriteFile(paths[1], []byte("Month,Energy_Delivered_kWh\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	ev, ok := waitEvent(t, svc, 2*time.Second)
	if !ok {
		t.Fatal("timeout waiting for EventDataChanged")
	}
	if ev.Type != EventDataChanged {
		t.Fatalf("unexpected event type %v", ev.Type)
	}
	if filepath.Base(ev.Path) != "energy_delivery.csv" {
		t.Errorf("Path = %s", ev.Path)
	}
}

func TestWatch_Debounce(t *testing.T) {
	svc, paths := newTestService(t, "revenue.csv")

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(paths[0], []byte("Month\nJan\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}

	if _, ok := waitEvent(t, svc, 2*time.Second); !ok {
		t.Fatal("timeout waiting for EventDataChanged")
	}
	if ev, ok := waitEvent(t, svc, 200*time.Millisecond); ok {
		t.Errorf("burst produced more than one event: %+v", ev)
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	svc, paths := newTestService(t, "revenue.csv")

	other := filepath.Join(filepath.Dir(paths[0]), "notes.txt")
	if err := os.WriteFile(other, []byte("hello"), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if ev, ok := waitEvent(t, svc, 200*time.Millisecond); ok {
		t.Errorf("unexpected event for unwatched file: %+v", ev)
	}
}

func TestWatch_AtomicReplace(t *testing.T) {
	svc, paths := newTestService(t, "revenue.csv")

	tmp := paths[0] + ".tmp"
	if err := os.WriteFile(tmp, []byte("Month\nFeb\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.Rename(tmp, paths[0]); err != nil {
		t.Fatalf("Rename() failed: %v", err)
	}

	if _, ok := waitEvent(t, svc, 2*time.Second); !ok {
		t.Fatal("rename into place was not reported")
	}
}

func TestSendEvent_Full(t *testing.T) {
	svc := &Service{eventChan: make(chan Event, 1)}

	svc.sendEvent(Event{Type: EventError})
	svc.sendEvent(Event{Type: EventDataChanged, Path: "latest"})

	ev := <-svc.eventChan
	if ev.Path != "latest" {
		t.Errorf("expected the newest event to survive, got %+v", ev)
	}
}

func TestClose_Twice(t *testing.T) {
	svc, _ := newTestService(t, "revenue.csv")
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}
