package obs

import (
	"bufio"
	"encoding/json"
	"os"
)

// ReadLog parses a JSON Lines event file, skipping malformed lines. A
// missing file yields an empty slice.
func ReadLog(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events, scanner.Err()
}

// Summarize computes Metrics over an arbitrary event slice, for example one
// loaded from the log file.
func Summarize(events []Event) Metrics {
	m := Metrics{
		TotalEvents: len(events),
		ByType:      make(map[string]int),
	}
	for _, e := range events {
		m.ByType[e.Type]++
	}
	start := len(events) - 10
	if start < 0 {
		start = 0
	}
	m.Recent = append(m.Recent, events[start:]...)
	return m
}
