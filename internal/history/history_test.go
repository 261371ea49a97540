package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/catalog/internal/types"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManager_RecordAndLoad(t *testing.T) {
	m := newManager(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	entries := []types.HistoryEntry{
		{RequestID: "a", Timestamp: base, ProfileName: "Default", Method: "POST", Path: "/rest/v1/projects", Body: `{"title":"One"}`, Status: 201, Duration: 12},
		{RequestID: "b", Timestamp: base.Add(time.Minute), ProfileName: "Default", Method: "PATCH", Path: "/rest/v1/projects?id=eq.1", Status: 200, Duration: 8},
		{RequestID: "c", Timestamp: base.Add(2 * time.Minute), ProfileName: "Staging", Method: "DELETE", Path: "/rest/v1/areas?id=eq.3", Status: 0, Error: "connection refused"},
	}
	for _, e := range entries {
		if err := m.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := m.Load("Default", 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries for Default, got %d", len(got))
	}
	if got[0].RequestID != "b" {
		t.Errorf("Expected newest entry first, got %q", got[0].RequestID)
	}
	if got[1].Body != `{"title":"One"}` {
		t.Errorf("Expected body to round trip, got %q", got[1].Body)
	}
	if !got[1].Timestamp.Equal(base) {
		t.Errorf("Expected timestamp %v, got %v", base, got[1].Timestamp)
	}

	all, err := m.Load("", 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 entries overall, got %d", len(all))
	}

	limited, err := m.Load("", 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(limited) != 1 || limited[0].RequestID != "c" {
		t.Errorf("Expected only the newest entry, got %+v", limited)
	}
}

func TestManager_Get(t *testing.T) {
	m := newManager(t)

	if err := m.Record(types.HistoryEntry{RequestID: "x1", Method: "POST", Path: "/rest/v1/content", Status: 0, Error: "timeout"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	e, err := m.Get("x1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.Error != "timeout" {
		t.Errorf("Expected error 'timeout', got %q", e.Error)
	}
	if e.Timestamp.IsZero() {
		t.Error("Expected a timestamp to be filled in")
	}

	if _, err := m.Get("missing"); err == nil {
		t.Error("Expected error for unknown request id")
	}
}

func TestManager_Clear(t *testing.T) {
	m := newManager(t)

	for _, p := range []string{"Default", "Default", "Staging"} {
		if err := m.Record(types.HistoryEntry{RequestID: p, ProfileName: p, Method: "POST", Path: "/rest/v1/projects", Status: 201}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	n, err := m.Clear("Default")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deleted entries, got %d", n)
	}

	n, err = m.Clear("")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 deleted entry, got %d", n)
	}
}
