// Package analysis computes aggregate statistics over the task store and
// renders textual reports.
package analysis

import (
	"time"

	"github.com/pablasso/smarttask/internal/task"
)

// Statistics holds aggregate counts over a set of tasks.
type Statistics struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	ByPriority     map[string]int `json:"byPriority"`
	CompletionRate float64        `json:"completionRate"`
	Overdue        int            `json:"overdue"`
	ActiveGoals    int            `json:"activeGoals"`
}

// Analyzer computes statistics and reports from a store.
type Analyzer struct {
	store *task.Store
	now   func() time.Time
}

// New creates an Analyzer for the given store.
func New(store *task.Store) *Analyzer {
	return &Analyzer{store: store, now: time.Now}
}

// WithClock sets a custom clock (useful for testing).
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Statistics aggregates counts across all tasks and goals. An empty store
// yields zero counts and a completion rate of 0, never a division error.
func (a *Analyzer) Statistics() Statistics {
	return a.statisticsSince(time.Time{})
}

// statisticsSince aggregates over tasks created at or after since. The zero
// time means no restriction.
func (a *Analyzer) statisticsSince(since time.Time) Statistics {
	stats := Statistics{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	now := a.now()

	a.store.View(func(doc task.Document) {
		for i := range doc.Tasks {
			t := &doc.Tasks[i]
			if !since.IsZero() && t.CreatedAt.Before(since) {
				continue
			}
			stats.Total++
			stats.ByStatus[t.Status]++
			stats.ByPriority[t.Priority]++
			if t.Overdue(now) {
				stats.Overdue++
			}
		}
		for _, g := range doc.Goals {
			if g.Status == task.GoalStatusActive {
				stats.ActiveGoals++
			}
		}
	})

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.ByStatus[task.StatusDone]) / float64(stats.Total)
	}
	return stats
}
