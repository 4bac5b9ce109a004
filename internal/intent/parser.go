package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reTopN        = regexp.MustCompile(`(?i)\btop\s+(\d+)\b(?:\s+(high|medium|low))?(?:\s+priority)?`)
	reAddSubtasks = regexp.MustCompile(`(?i)^add\s+subtasks?\s+to\s+task\s+(\d+)\s*:\s*(.+)$`)
	reSubtaskDone = regexp.MustCompile(`(?i)^mark\s+subtask\s+(\d+)\s+(?:as\s+)?done\s+(?:for|on|in)\s+task\s+(\d+)$`)
	reDecompose   = regexp.MustCompile(`(?i)^break\s+(?:down\s+)?['"]?(.+?)['"]?\s+into\s+subtasks?$`)
	reDecomposeID = regexp.MustCompile(`(?i)^task\s+(\d+)$`)
	reUpdate      = regexp.MustCompile(`(?i)^update\s+task\s+(\d+)\s+(?:status\s+)?(?:to\s+)?([\w]+)$`)
	reMarkTask    = regexp.MustCompile(`(?i)^mark\s+task\s+(\d+)\s+(?:as\s+)?([\w]+)$`)
	reDeleteTask  = regexp.MustCompile(`(?i)^delete\s+task\s+(\d+)$`)
	reCleanup     = regexp.MustCompile(`(?i)^(?:delete\s+previous\s+month(?:\s+tasks)?|clean(?:\s*up)?\s+old\s+tasks)$`)
	reSetGoal     = regexp.MustCompile(`(?i)^set\s+a\s+goal\s+to\s+(.+?)(?:\s+(?:in|within)\s+(.+))?$`)
	reSaveGoal    = regexp.MustCompile(`(?i)^save\s+goal:\s*(.+)$`)
	reWantGoal    = regexp.MustCompile(`(?i)^i\s+want\s+to\s+(.+?)(?:\s+in\s+(.+))?$`)
	rePriority    = regexp.MustCompile(`(?i)\s+priority\s+(high|medium|low)\b`)
	reDue         = regexp.MustCompile(`(?i)\s+due\s+(.+)$`)
	reListTasks   = regexp.MustCompile(`(?i)^(?:list|show)\s+(?:(high|medium|low)\s+priority\s+)?tasks?$`)
	reListGoals   = regexp.MustCompile(`(?i)^(?:list|show)\s+goals?$`)
)

// Parse resolves an utterance into an Intent. Date phrases are resolved
// relative to now. Utterances matching no rule come back as KindUnknown.
func Parse(text string, now time.Time) Intent {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	// Rule 1: explicit numeric filters ("show top 3 high priority"). Checked
	// first so the "top N" form is never misparsed as a generic list.
	if m := reTopN.FindStringSubmatch(text); m != nil && strings.Contains(lower, "priority") {
		n, _ := strconv.Atoi(m[1])
		priority := strings.ToLower(m[2])
		if priority == "" {
			priority = "high"
		}
		return Intent{Kind: KindListTasks, Top: n, Priority: priority}
	}

	// Rule 2: "add subtasks to task K: a, b, c"
	if m := reAddSubtasks.FindStringSubmatch(text); m != nil {
		id, _ := strconv.Atoi(m[1])
		return Intent{Kind: KindAddSubtasks, TaskID: id, Subtasks: splitList(m[2])}
	}

	// Rule 3: "mark subtask I done for task K"
	if m := reSubtaskDone.FindStringSubmatch(text); m != nil {
		idx, _ := strconv.Atoi(m[1])
		id, _ := strconv.Atoi(m[2])
		return Intent{Kind: KindSubtaskDone, TaskID: id, SubtaskIndex: idx}
	}

	// Rule 4: "break down '<title>' into subtasks"
	if m := reDecompose.FindStringSubmatch(text); m != nil {
		target := strings.TrimSpace(m[1])
		if idm := reDecomposeID.FindStringSubmatch(target); idm != nil {
			id, _ := strconv.Atoi(idm[1])
			return Intent{Kind: KindDecompose, TaskID: id}
		}
		if id, err := strconv.Atoi(target); err == nil {
			return Intent{Kind: KindDecompose, TaskID: id}
		}
		return Intent{Kind: KindDecompose, Title: target}
	}

	// Rule 5: "update task K status <status>". The status word is kept as
	// typed; validation happens in the task manager.
	if m := reUpdate.FindStringSubmatch(text); m != nil {
		id, _ := strconv.Atoi(m[1])
		return Intent{Kind: KindUpdateStatus, TaskID: id, Status: normalizeStatus(m[2])}
	}
	if m := reMarkTask.FindStringSubmatch(text); m != nil {
		id, _ := strconv.Atoi(m[1])
		return Intent{Kind: KindUpdateStatus, TaskID: id, Status: normalizeStatus(m[2])}
	}

	// Rule 6: delete, single and bulk
	if m := reDeleteTask.FindStringSubmatch(text); m != nil {
		id, _ := strconv.Atoi(m[1])
		return Intent{Kind: KindDeleteTask, TaskID: id}
	}
	if reCleanup.MatchString(text) {
		return Intent{Kind: KindCleanup}
	}

	// Rule 7: goal creation. The duration phrase is retained as free text.
	if m := reSetGoal.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindSetGoal, Goal: strings.TrimSpace(m[1]), Horizon: strings.TrimSpace(m[2])}
	}
	if m := reSaveGoal.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindSetGoal, Goal: strings.TrimSpace(m[1])}
	}
	if m := reWantGoal.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindSetGoal, Goal: strings.TrimSpace(m[1]), Horizon: strings.TrimSpace(m[2])}
	}

	// Rule 8: "add <title> [due <date-phrase>] [priority <level>]"
	if rest, ok := cutPrefixFold(text, "add "); ok {
		return parseAddTask(rest, now)
	}

	// Rule 9: plain lists
	if m := reListTasks.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindListTasks, Priority: strings.ToLower(m[1])}
	}
	if reListGoals.MatchString(text) {
		return Intent{Kind: KindListGoals}
	}
	switch lower {
	case "tasks":
		return Intent{Kind: KindListTasks}
	case "goals":
		return Intent{Kind: KindListGoals}
	}

	// Rule 10: reports
	if strings.Contains(lower, "report") || strings.Contains(lower, "weekly summary") ||
		strings.Contains(lower, "statistics") || strings.Contains(lower, "stats") {
		variant := ReportProgress
		switch {
		case strings.Contains(lower, "weekly"):
			variant = ReportWeekly
		case strings.Contains(lower, "statistic") || strings.Contains(lower, "stats"):
			variant = ReportStatistics
		}
		return Intent{Kind: KindReport, ReportVariant: variant}
	}

	// Rule 11: system status / metrics
	if lower == "metrics" || strings.Contains(lower, "system status") ||
		strings.Contains(lower, "get metrics") || strings.Contains(lower, "system events") {
		return Intent{Kind: KindSystemStatus}
	}

	return Intent{Kind: KindUnknown}
}

// parseAddTask extracts the optional trailing "priority <level>" and
// "due <phrase>" clauses, leaving the remainder as the title.
func parseAddTask(rest string, now time.Time) Intent {
	it := Intent{Kind: KindAddTask}

	if m := rePriority.FindStringSubmatch(rest); m != nil {
		it.Priority = strings.ToLower(m[1])
		rest = rePriority.ReplaceAllString(rest, "")
	}
	if m := reDue.FindStringSubmatch(rest); m != nil {
		it.DuePhrase = strings.TrimSpace(m[1])
		rest = reDue.ReplaceAllString(rest, "")
		it.DueDate = ResolveDatePhrase(it.DuePhrase, now)
	}

	it.Title = strings.TrimSpace(rest)
	return it
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeStatus maps common spellings onto the status enum spelling but
// leaves unknown words untouched so validation can report them.
func normalizeStatus(s string) string {
	s = strings.ToLower(s)
	switch s {
	case "in-progress", "inprogress", "started":
		return "in_progress"
	case "completed", "complete", "finished":
		return "done"
	}
	return s
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
