package obs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLog(t *testing.T) {
	t.Run("assigns unique ids and timestamps", func(t *testing.T) {
		tr := New("")
		tr.Log(EventCommandReceived, "cli", map[string]any{"text": "add task x"})
		tr.Log(EventIntentResolved, "cli", nil)

		events := tr.Events("", "")
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if events[0].ID == "" || events[0].ID == events[1].ID {
			t.Errorf("event ids not unique: %q, %q", events[0].ID, events[1].ID)
		}
		if events[0].Timestamp.IsZero() {
			t.Errorf("timestamp not set")
		}
	})

	t.Run("ring drops oldest beyond the cap", func(t *testing.T) {
		tr := New("")
		for i := 0; i < maxEvents+5; i++ {
			tr.Log(EventCommandReceived, "cli", map[string]any{"i": i})
		}

		events := tr.Events("", "")
		if len(events) != maxEvents {
			t.Fatalf("got %d events, want %d", len(events), maxEvents)
		}
		if got := events[0].Details["i"]; got != 5 {
			t.Errorf("oldest retained event = %v, want 5", got)
		}
	})

	t.Run("unwritable log path does not fail", func(t *testing.T) {
		tr := New(filepath.Join(t.TempDir(), "missing", "events.log"))
		tr.Log(EventError, "cli", nil)

		if got := len(tr.Events("", "")); got != 1 {
			t.Errorf("got %d events in memory, want 1", got)
		}
	})
}

func TestEventsFilter(t *testing.T) {
	tr := New("")
	tr.Log(EventCommandReceived, "cli", nil)
	tr.Log(EventCommandReceived, "web", nil)
	tr.Log(EventError, "web", nil)

	if got := len(tr.Events("web", "")); got != 2 {
		t.Errorf("source filter: got %d, want 2", got)
	}
	if got := len(tr.Events("", EventCommandReceived)); got != 2 {
		t.Errorf("type filter: got %d, want 2", got)
	}
	if got := len(tr.Events("web", EventError)); got != 1 {
		t.Errorf("combined filter: got %d, want 1", got)
	}
	if got := len(tr.Events("tui", "")); got != 0 {
		t.Errorf("non-matching source: got %d, want 0", got)
	}
}

func TestMetrics(t *testing.T) {
	tr := New("")
	for i := 0; i < 12; i++ {
		tr.Log(EventCommandReceived, "cli", nil)
	}
	tr.Log(EventError, "cli", nil)

	m := tr.Metrics()
	if m.TotalEvents != 13 {
		t.Errorf("total = %d, want 13", m.TotalEvents)
	}
	if m.ByType[EventCommandReceived] != 12 || m.ByType[EventError] != 1 {
		t.Errorf("byType = %v", m.ByType)
	}
	if len(m.Recent) != 10 {
		t.Errorf("recent = %d events, want 10", len(m.Recent))
	}
	if m.Recent[9].Type != EventError {
		t.Errorf("last recent event = %q, want %q", m.Recent[9].Type, EventError)
	}
}

func TestReadLog(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		events, err := ReadLog(filepath.Join(t.TempDir(), "nope.log"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if events != nil {
			t.Errorf("got %v, want nil", events)
		}
	})

	t.Run("round trip through the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.log")
		tr := New(path)
		tr.Log(EventCommandReceived, "cli", map[string]any{"text": "hello"})
		tr.Log(EventMutationApplied, "cli", nil)

		events, err := ReadLog(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if events[1].Type != EventMutationApplied {
			t.Errorf("type = %q, want %q", events[1].Type, EventMutationApplied)
		}
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.log")
		good := `{"id":"a","type":"error","timestamp":"2026-08-26T00:00:00Z","source":"cli"}`
		content := fmt.Sprintf("not json\n%s\n{broken\n", good)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		events, err := ReadLog(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(events) != 1 || events[0].ID != "a" {
			t.Errorf("got %v, want the single valid event", events)
		}
	})
}

func TestSummarize(t *testing.T) {
	var events []Event
	for i := 0; i < 11; i++ {
		events = append(events, Event{ID: fmt.Sprint(i), Type: EventAgentCall})
	}

	m := Summarize(events)
	if m.TotalEvents != 11 {
		t.Errorf("total = %d, want 11", m.TotalEvents)
	}
	if m.ByType[EventAgentCall] != 11 {
		t.Errorf("byType = %v", m.ByType)
	}
	if len(m.Recent) != 10 || m.Recent[0].ID != "1" {
		t.Errorf("recent window wrong: %v", m.Recent)
	}
}
