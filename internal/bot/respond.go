package bot

import (
	"fmt"
	"strings"

	"github.com/pablasso/smarttask/internal/intent"
	"github.com/pablasso/smarttask/internal/obs"
	"github.com/pablasso/smarttask/internal/task"
)

// listLimit caps how many tasks a plain list reply shows.
const listLimit = 10

const helpText = `I can help you manage tasks and goals. Try commands like:
- 'add [task] due [date] priority [high/medium/low]'
- 'list tasks' or 'show high priority tasks'
- 'show top 3 high priority'
- 'update task 2 status done'
- 'add subtasks to task 2: research, outline'
- 'break down task 2 into subtasks'
- 'set a goal to learn Go in 3 months'
- 'show progress report' or 'weekly summary'`

func formatTaskList(tasks []task.Task, it intent.Intent) string {
	if len(tasks) == 0 {
		if it.Priority != "" {
			return fmt.Sprintf("No %s priority tasks found.", it.Priority)
		}
		return "No tasks found. Add one with 'add [task description]'"
	}

	shown := tasks
	if it.Top == 0 && len(shown) > listLimit {
		shown = shown[:listLimit]
	}

	var b strings.Builder
	if it.Top > 0 {
		fmt.Fprintf(&b, "🔝 Top %d %s priority tasks:\n", it.Top, it.Priority)
	} else {
		b.WriteString("📋 Your tasks:\n")
	}
	for _, t := range shown {
		fmt.Fprintf(&b, "#%d: %s - %s priority - %s", t.ID, t.Title, t.Priority, t.Status)
		if t.DueDate != nil {
			fmt.Fprintf(&b, " (due: %s)", t.DueDate.Format("2006-01-02"))
		}
		if n := len(t.Subtasks); n > 0 {
			done := 0
			for _, s := range t.Subtasks {
				if s.Done {
					done++
				}
			}
			fmt.Fprintf(&b, " [%d/%d subtasks]", done, n)
		}
		b.WriteString("\n")
	}
	if len(shown) < len(tasks) {
		fmt.Fprintf(&b, "…and %d more", len(tasks)-len(shown))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGoalList(goals []task.Goal) string {
	if len(goals) == 0 {
		return "No goals found. Add one with 'I want to [goal] in [timeframe]'"
	}

	var b strings.Builder
	b.WriteString("Your goals:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "🎯 #%d %s", g.ID, g.Description)
		if g.Horizon != "" {
			fmt.Fprintf(&b, " (%s)", g.Horizon)
		}
		if len(g.TaskIDs) > 0 {
			fmt.Fprintf(&b, " - tracked by task %v", g.TaskIDs)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSubtasks(t task.Task) string {
	var b strings.Builder
	for i, s := range t.Subtasks {
		mark := "[ ]"
		if s.Done {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %d. %s %s\n", i, mark, s.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMetrics(m obs.Metrics) string {
	var b strings.Builder
	b.WriteString("System Metrics\n")
	fmt.Fprintf(&b, "Total events: %d\n", m.TotalEvents)
	fmt.Fprintf(&b, "  commands: %d, intents: %d, mutations: %d, agent calls: %d, errors: %d\n",
		m.ByType[obs.EventCommandReceived],
		m.ByType[obs.EventIntentResolved],
		m.ByType[obs.EventMutationApplied],
		m.ByType[obs.EventAgentCall],
		m.ByType[obs.EventError])
	if len(m.Recent) > 0 {
		b.WriteString("Recent events:\n")
		for _, e := range m.Recent {
			fmt.Fprintf(&b, "  %s %s %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Source)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
