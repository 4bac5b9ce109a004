package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var reInN = regexp.MustCompile(`(?i)^in\s+(\d+)\s+(day|days|week|weeks)$`)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ResolveDatePhrase converts a natural-language date phrase into a calendar
// date relative to now. Resolved dates land at end of day so a task due
// "today" is not immediately overdue. Unresolvable phrases return nil; the
// caller keeps the phrase and stores no due date.
func ResolveDatePhrase(phrase string, now time.Time) *time.Time {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return nil
	}

	switch p {
	case "today":
		return endOfDay(now, 0)
	case "tomorrow":
		return endOfDay(now, 1)
	case "next week":
		return endOfDay(now, 7)
	}

	if wd, ok := weekdays[p]; ok {
		days := int(wd-now.Weekday()+7) % 7
		if days == 0 {
			days = 7 // "friday" on a Friday means next Friday
		}
		return endOfDay(now, days)
	}

	if m := reInN.FindStringSubmatch(p); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "week") {
			n *= 7
		}
		return endOfDay(now, n)
	}

	if d, err := time.Parse("2006-01-02", p); err == nil {
		return endOfDay(d, 0)
	}

	return nil
}

func endOfDay(t time.Time, addDays int) *time.Time {
	t = t.AddDate(0, 0, addDays)
	eod := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	return &eod
}
