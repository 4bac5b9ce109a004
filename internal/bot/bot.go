// Package bot is the orchestrator: it resolves each utterance to an intent,
// picks which logic components run, and assembles their outputs into one
// reply. Domain errors are turned into explanatory messages here and never
// escape to the transport.
package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pablasso/smarttask/internal/ai"
	"github.com/pablasso/smarttask/internal/analysis"
	"github.com/pablasso/smarttask/internal/intent"
	"github.com/pablasso/smarttask/internal/obs"
	"github.com/pablasso/smarttask/internal/planner"
	"github.com/pablasso/smarttask/internal/session"
	"github.com/pablasso/smarttask/internal/task"
)

// cleanupWindow is how far back the bulk-delete cutoff reaches. "Previous
// month" is interpreted as the last 30 days, not the previous calendar month.
const cleanupWindow = 30 * 24 * time.Hour

// recentExchanges is how many exchanges are handed to the fallback as context.
const recentExchanges = 3

var greetings = map[string]string{
	"hi":          "Hello! I'm SmartTask. How can I help with your tasks?",
	"hello":       "Hi there! I'm here to help you manage tasks and goals.",
	"hey":         "Hey! Ready to organize your tasks?",
	"hola":        "¡Hola! I'm your task assistant.",
	"how are you": "I'm doing great! Ready to help you manage your tasks.",
}

// reHorizonMonths recognizes goal horizons like "in 3 months" so a companion
// task can get a concrete due date. All other horizons stay free text.
var reHorizonMonths = regexp.MustCompile(`(?i)^(?:in\s+)?(\d+)\s+months?$`)

// Bot routes parsed intents to the task manager, goal planner, and analyzer.
type Bot struct {
	tasks    *task.Manager
	goals    *planner.Planner
	analyzer *analysis.Analyzer
	tracker  *obs.Tracker
	fallback ai.Fallback
	sessions *session.Storage
	sess     *session.Session
	now      func() time.Time
}

// New creates a Bot over the given store and tracker.
func New(store *task.Store, tracker *obs.Tracker) *Bot {
	return &Bot{
		tasks:    task.NewManager(store),
		goals:    planner.New(store),
		analyzer: analysis.New(store),
		tracker:  tracker,
		now:      time.Now,
	}
}

// WithFallback enables language-model fallback for unrecognized utterances.
func (b *Bot) WithFallback(f ai.Fallback) *Bot {
	b.fallback = f
	return b
}

// WithSession attaches a persisted conversation session.
func (b *Bot) WithSession(storage *session.Storage, s *session.Session) *Bot {
	b.sessions = storage
	b.sess = s
	return b
}

// WithClock sets a custom clock (useful for testing).
func (b *Bot) WithClock(now func() time.Time) *Bot {
	b.now = now
	b.tasks.WithClock(now)
	b.goals.WithClock(now)
	b.analyzer.WithClock(now)
	return b
}

// Process handles one utterance start to finish: parse, route, mutate or
// query the store, and respond. It never returns an error; every failure
// becomes a user-facing message.
func (b *Bot) Process(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	b.tracker.Log(obs.EventCommandReceived, "bot", map[string]any{"length": len(text)})

	reply := b.respond(ctx, text)

	if b.sess != nil {
		b.sess.Record(text, reply)
		if b.sessions != nil {
			// Transcript persistence is best-effort.
			b.sessions.Save(b.sess)
		}
	}
	return reply
}

func (b *Bot) respond(ctx context.Context, text string) string {
	if g, ok := greetings[strings.ToLower(text)]; ok {
		return g
	}

	it := intent.Parse(text, b.now())
	b.tracker.Log(obs.EventIntentResolved, "bot", map[string]any{"intent": it.Kind.String()})

	switch it.Kind {
	case intent.KindAddTask:
		return b.handleAddTask(it)
	case intent.KindListTasks:
		return b.handleListTasks(it)
	case intent.KindListGoals:
		return b.handleListGoals()
	case intent.KindAddSubtasks:
		return b.handleAddSubtasks(it)
	case intent.KindSubtaskDone:
		return b.handleSubtaskDone(it)
	case intent.KindDecompose:
		return b.handleDecompose(it)
	case intent.KindUpdateStatus:
		return b.handleUpdateStatus(it)
	case intent.KindDeleteTask:
		return b.handleDeleteTask(it)
	case intent.KindCleanup:
		return b.handleCleanup()
	case intent.KindSetGoal:
		return b.handleSetGoal(it)
	case intent.KindReport:
		b.tracker.Log(obs.EventAgentCall, "analysis", map[string]any{"variant": it.ReportVariant})
		return b.analyzer.Report(it.ReportVariant)
	case intent.KindSystemStatus:
		return formatMetrics(b.tracker.Metrics())
	default:
		return b.handleUnknown(ctx, text)
	}
}

func (b *Bot) handleAddTask(it intent.Intent) string {
	t, created, err := b.tasks.AddTask(it.Title, it.Priority, it.DueDate)
	if err != nil {
		return b.fail("add_task", err)
	}
	if !created {
		return fmt.Sprintf("⚠️ Task already exists! ID: %d", t.ID)
	}
	b.logMutation("add_task", map[string]any{"task_id": t.ID})

	reply := fmt.Sprintf("✅ Task created! ID: %d, Title: %q, Priority: %s", t.ID, t.Title, t.Priority)
	if t.DueDate != nil {
		reply += ", Due: " + t.DueDate.Format("2006-01-02")
	} else if it.DuePhrase != "" {
		reply += fmt.Sprintf(" (couldn't resolve %q as a date, no due date set)", it.DuePhrase)
	}
	return reply
}

func (b *Bot) handleListTasks(it intent.Intent) string {
	tasks := b.tasks.ListTasks(task.Filter{Priority: it.Priority, Top: it.Top})
	return formatTaskList(tasks, it)
}

func (b *Bot) handleListGoals() string {
	return formatGoalList(b.goals.ListGoals())
}

func (b *Bot) handleAddSubtasks(it intent.Intent) string {
	t, err := b.tasks.AddSubtasks(it.TaskID, it.Subtasks)
	if err != nil {
		return b.fail("add_subtasks", err)
	}
	b.logMutation("add_subtasks", map[string]any{"task_id": t.ID, "count": len(it.Subtasks)})
	return fmt.Sprintf("✅ Added %d subtasks to task %d:\n%s", len(it.Subtasks), t.ID, formatSubtasks(t))
}

func (b *Bot) handleSubtaskDone(it intent.Intent) string {
	t, err := b.tasks.MarkSubtaskDone(it.TaskID, it.SubtaskIndex)
	if err != nil {
		return b.fail("mark_subtask_done", err)
	}
	b.logMutation("mark_subtask_done", map[string]any{"task_id": t.ID, "index": it.SubtaskIndex})
	return fmt.Sprintf("✅ Subtask %d of task %d marked done:\n%s", it.SubtaskIndex, t.ID, formatSubtasks(t))
}

func (b *Bot) handleDecompose(it intent.Intent) string {
	b.tracker.Log(obs.EventAgentCall, "planner", map[string]any{"action": "decompose"})
	t, err := b.goals.Decompose(it.Title, it.TaskID)
	if err != nil {
		return b.fail("decompose", err)
	}
	b.logMutation("decompose", map[string]any{"task_id": t.ID})
	return fmt.Sprintf("🔨 Broke down task %d (%s) into subtasks:\n%s", t.ID, t.Title, formatSubtasks(t))
}

func (b *Bot) handleUpdateStatus(it intent.Intent) string {
	t, err := b.tasks.UpdateStatus(it.TaskID, it.Status)
	if err != nil {
		return b.fail("update_status", err)
	}
	b.logMutation("update_status", map[string]any{"task_id": t.ID, "status": t.Status})
	return fmt.Sprintf("✅ Task %d (%s) is now %s", t.ID, t.Title, t.Status)
}

func (b *Bot) handleDeleteTask(it intent.Intent) string {
	if err := b.tasks.DeleteTask(it.TaskID); err != nil {
		return b.fail("delete_task", err)
	}
	b.logMutation("delete_task", map[string]any{"task_id": it.TaskID})
	return fmt.Sprintf("🗑️ Task %d deleted.", it.TaskID)
}

func (b *Bot) handleCleanup() string {
	cutoff := b.now().Add(-cleanupWindow)
	removed, err := b.tasks.Cleanup(cutoff)
	if err != nil {
		return b.fail("cleanup", err)
	}
	b.logMutation("cleanup", map[string]any{"removed": removed})
	return fmt.Sprintf("🧹 Cleaned up %d completed tasks older than %s.", removed, cutoff.Format("2006-01-02"))
}

// handleSetGoal runs the planner and, when the horizon names a number of
// months, also the task manager: the goal gets a linked "Achieve:" task with
// a concrete due date. The two sections are joined into one reply.
func (b *Bot) handleSetGoal(it intent.Intent) string {
	b.tracker.Log(obs.EventAgentCall, "planner", map[string]any{"action": "set_goal"})
	g, err := b.goals.SetGoal(it.Goal, it.Horizon)
	if err != nil {
		return b.fail("set_goal", err)
	}
	b.logMutation("set_goal", map[string]any{"goal_id": g.ID})

	reply := fmt.Sprintf("🎯 Goal saved! ID: %d, %s", g.ID, g.Description)
	if g.Horizon != "" {
		reply += fmt.Sprintf(" (%s)", g.Horizon)
	}

	m := reHorizonMonths.FindStringSubmatch(g.Horizon)
	if m == nil {
		return reply
	}
	months, _ := strconv.Atoi(m[1])
	due := b.now().AddDate(0, 0, months*30)

	t, created, err := b.tasks.AddTask("Achieve: "+g.Description, task.PriorityHigh, &due)
	if err != nil || !created {
		return reply
	}
	if err := b.goals.LinkTask(g.ID, t.ID); err == nil {
		b.logMutation("goal_task_created", map[string]any{"goal_id": g.ID, "task_id": t.ID})
	}
	return reply + fmt.Sprintf("\n\n---\n\n✅ Created task %d to track it, due %s.", t.ID, due.Format("2006-01-02"))
}

// handleUnknown degrades gracefully: language-model fallback when available,
// otherwise a help hint. Never an error to the end user.
func (b *Bot) handleUnknown(ctx context.Context, text string) string {
	if b.fallback != nil {
		b.tracker.Log(obs.EventAgentCall, "fallback", map[string]any{"length": len(text)})
		var recent []string
		if b.sess != nil {
			recent = b.sess.Recent(recentExchanges)
		}
		reply, err := b.fallback.Reply(ctx, text, recent)
		if err == nil && reply != "" {
			return reply
		}
		b.tracker.Log(obs.EventError, "fallback", map[string]any{"error": fmt.Sprint(err)})
	}
	return helpText
}

// fail converts a domain error into an explanatory reply and logs it.
func (b *Bot) fail(action string, err error) string {
	b.tracker.Log(obs.EventError, "bot", map[string]any{"action": action, "error": err.Error()})

	var verr *task.ValidationError
	if errors.As(err, &verr) {
		return "⚠️ " + verr.Msg
	}
	var nferr *task.NotFoundError
	if errors.As(err, &nferr) {
		return "❌ " + nferr.Error() + "."
	}
	var perr *task.PersistenceError
	if errors.As(err, &perr) {
		return "❌ Couldn't save your change, nothing was modified. Please try again."
	}
	return "❌ " + err.Error()
}

func (b *Bot) logMutation(action string, details map[string]any) {
	details["action"] = action
	b.tracker.Log(obs.EventMutationApplied, "bot", details)
}
