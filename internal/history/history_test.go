package history

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogAndRecent(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Log(EventParsed, "ls", map[string]any{"options": 12}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := s.Log(EventExecuted, "ls", map[string]any{"return_code": 0}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := s.Log(EventParsed, "cp", nil); err != nil {
		t.Fatalf("log: %v", err)
	}

	events, err := s.Recent("", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("event count: %d", len(events))
	}
	// Newest first.
	if events[0].Command != "cp" || events[2].Type != EventParsed {
		t.Fatalf("unexpected order: %+v", events)
	}
}

func TestRecentFilterByCommand(t *testing.T) {
	s := openTestStore(t)
	s.Log(EventParsed, "ls", nil)
	s.Log(EventParsed, "cp", nil)
	s.Log(EventExecuted, "ls", nil)

	events, err := s.Recent("ls", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("filtered count: %d", len(events))
	}
	for _, e := range events {
		if e.Command != "ls" {
			t.Fatalf("filter leaked: %+v", e)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	s.Log(EventExecuted, "ls", map[string]any{"return_code": float64(2), "success": false})

	events, err := s.Recent("ls", 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("count: %d", len(events))
	}
	p := events[0].Payload
	if p["return_code"] != float64(2) || p["success"] != false {
		t.Fatalf("payload: %+v", p)
	}
}
