package analysis

import (
	"fmt"
	"strings"

	"github.com/pablasso/smarttask/internal/intent"
	"github.com/pablasso/smarttask/internal/task"
)

// Report renders a statistics block for the given variant. Variants differ
// only in framing text and time window: weekly restricts to tasks created
// within the last 7 days, the others cover everything.
func (a *Analyzer) Report(variant string) string {
	var stats Statistics
	var header string

	switch variant {
	case intent.ReportWeekly:
		cutoff := a.now().AddDate(0, 0, -7)
		stats = a.statisticsSince(cutoff)
		header = "Weekly Summary (last 7 days)"
	case intent.ReportStatistics:
		stats = a.Statistics()
		header = "Task Statistics"
	default:
		stats = a.Statistics()
		header = "Progress Report"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", header, a.now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Total tasks: %d\n", stats.Total)
	fmt.Fprintf(&b, "  pending: %d, in progress: %d, done: %d\n",
		stats.ByStatus[task.StatusPending],
		stats.ByStatus[task.StatusInProgress],
		stats.ByStatus[task.StatusDone])
	fmt.Fprintf(&b, "  high: %d, medium: %d, low: %d\n",
		stats.ByPriority[task.PriorityHigh],
		stats.ByPriority[task.PriorityMedium],
		stats.ByPriority[task.PriorityLow])
	fmt.Fprintf(&b, "Completion rate: %.0f%%\n", stats.CompletionRate*100)
	fmt.Fprintf(&b, "Overdue: %d\n", stats.Overdue)
	fmt.Fprintf(&b, "Active goals: %d", stats.ActiveGoals)

	return b.String()
}
