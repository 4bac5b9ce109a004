// Package intent parses free-form utterances into a closed set of structured
// commands. Matching is keyword and pattern based, not full NLP: rules are
// tried in a fixed priority order and the first match wins.
package intent

import "time"

// Kind identifies the resolved category of a user request.
type Kind int

const (
	KindUnknown Kind = iota
	KindAddTask
	KindListTasks
	KindListGoals
	KindAddSubtasks
	KindSubtaskDone
	KindDecompose
	KindUpdateStatus
	KindDeleteTask
	KindCleanup
	KindSetGoal
	KindReport
	KindSystemStatus
)

func (k Kind) String() string {
	switch k {
	case KindAddTask:
		return "add_task"
	case KindListTasks:
		return "list_tasks"
	case KindListGoals:
		return "list_goals"
	case KindAddSubtasks:
		return "add_subtasks"
	case KindSubtaskDone:
		return "subtask_done"
	case KindDecompose:
		return "decompose"
	case KindUpdateStatus:
		return "update_status"
	case KindDeleteTask:
		return "delete_task"
	case KindCleanup:
		return "cleanup"
	case KindSetGoal:
		return "set_goal"
	case KindReport:
		return "report"
	case KindSystemStatus:
		return "system_status"
	default:
		return "unknown"
	}
}

// Report variant tags.
const (
	ReportProgress   = "progress"
	ReportWeekly     = "weekly"
	ReportStatistics = "statistics"
)

// Intent is the parsed form of an utterance: a kind plus the fields relevant
// to it. Fields not used by a kind are left at their zero values.
type Intent struct {
	Kind Kind

	// Add task / decompose
	Title     string
	Priority  string
	DuePhrase string     // raw phrase as typed, kept even when unresolvable
	DueDate   *time.Time // resolved from DuePhrase, nil when unresolvable

	// Task references
	TaskID       int
	SubtaskIndex int
	Subtasks     []string

	// Status update
	Status string

	// List filters
	Top int

	// Goals
	Goal    string
	Horizon string // duration phrase kept verbatim

	// Reports
	ReportVariant string
}
