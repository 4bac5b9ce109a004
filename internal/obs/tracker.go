// Package obs records discrete events (commands, intent resolutions,
// mutations, errors) to an in-memory ring and an append-only JSON Lines file.
package obs

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event type constants.
const (
	EventCommandReceived = "command_received"
	EventIntentResolved  = "intent_resolved"
	EventMutationApplied = "mutation_applied"
	EventAgentCall       = "agent_call"
	EventError           = "error"
)

// maxEvents caps the in-memory ring; older events survive only in the log file.
const maxEvents = 1000

// Event is a single timestamped observability record.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Details   map[string]any `json:"details,omitempty"`
}

// Tracker collects events. A Tracker with an empty path keeps events in
// memory only. The zero value is not usable; call New.
type Tracker struct {
	path string

	mu     sync.Mutex
	events []Event
}

// New creates a Tracker appending to the given log file. Pass an empty path
// to keep events in memory only.
func New(path string) *Tracker {
	return &Tracker{path: path}
}

// Log records an event. File append failures are swallowed: observability is
// out of the core's critical path and must never fail a command.
func (t *Tracker) Log(eventType, source string, details map[string]any) {
	e := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Details:   details,
	}

	t.mu.Lock()
	t.events = append(t.events, e)
	if len(t.events) > maxEvents {
		t.events = t.events[len(t.events)-maxEvents:]
	}
	t.mu.Unlock()

	if t.path == "" {
		return
	}
	line, err := json.Marshal(e)
	if err != nil {
		return
	}
	line = append(line, '\n')
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	f.Write(line)
}

// Events returns recorded events, optionally filtered by source and type.
// Empty filter values match everything.
func (t *Tracker) Events(source, eventType string) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Event
	for _, e := range t.events {
		if source != "" && e.Source != source {
			continue
		}
		if eventType != "" && e.Type != eventType {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Metrics summarizes recorded events.
type Metrics struct {
	TotalEvents int            `json:"totalEvents"`
	ByType      map[string]int `json:"byType"`
	Recent      []Event        `json:"recent"`
}

// Metrics returns event counts by type plus the last 10 events.
func (t *Tracker) Metrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := Metrics{
		TotalEvents: len(t.events),
		ByType:      make(map[string]int),
	}
	for _, e := range t.events {
		m.ByType[e.Type]++
	}

	n := len(t.events)
	start := n - 10
	if start < 0 {
		start = 0
	}
	m.Recent = append(m.Recent, t.events[start:]...)
	return m
}
