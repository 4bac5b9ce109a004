// Package planner manages long-term goals and decomposes goals or tasks into
// subtask stubs.
package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/pablasso/smarttask/internal/task"
)

// DecomposeSteps is the fixed sequence of subtask stubs attached when a task
// is broken down.
var DecomposeSteps = []string{"research", "plan", "execute", "review"}

// Planner applies goal mutations and queries against a Store.
type Planner struct {
	store *task.Store
	now   func() time.Time
}

// New creates a Planner backed by the given store.
func New(store *task.Store) *Planner {
	return &Planner{store: store, now: time.Now}
}

// WithClock sets a custom clock (useful for testing).
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// SetGoal creates a goal with status active. The horizon phrase is stored
// verbatim; no deadline is computed from it.
func (p *Planner) SetGoal(description, horizon string) (task.Goal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return task.Goal{}, &task.ValidationError{Msg: "goal description must not be empty"}
	}

	var created task.Goal
	err := p.store.Update(func(tx *task.Tx) error {
		created = task.Goal{
			ID:          tx.NextGoalID(),
			Description: description,
			Horizon:     strings.TrimSpace(horizon),
			Status:      task.GoalStatusActive,
			CreatedAt:   p.now().UTC(),
		}
		tx.Doc.Goals = append(tx.Doc.Goals, created)
		return nil
	})
	if err != nil {
		return task.Goal{}, err
	}
	return created, nil
}

// ListGoals returns all goals, most recently created first.
func (p *Planner) ListGoals() []task.Goal {
	var out []task.Goal
	p.store.View(func(doc task.Document) {
		out = append(out, doc.Goals...)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// LinkTask records a weak reference from a goal to a task created on its
// behalf.
func (p *Planner) LinkTask(goalID, taskID int) error {
	return p.store.Update(func(tx *task.Tx) error {
		for i := range tx.Doc.Goals {
			if tx.Doc.Goals[i].ID == goalID {
				tx.Doc.Goals[i].TaskIDs = append(tx.Doc.Goals[i].TaskIDs, taskID)
				return nil
			}
		}
		return &task.NotFoundError{Kind: "goal", ID: goalID}
	})
}

// Decompose resolves a task by id or by case-insensitive title substring and
// appends the generic decomposition steps as subtasks. When several tasks
// match the substring, the most recently created match wins. That is a
// documented heuristic, not a guarantee of the intended task.
func (p *Planner) Decompose(titleOrID string, id int) (task.Task, error) {
	var updated task.Task
	err := p.store.Update(func(tx *task.Tx) error {
		t := resolveTarget(tx.Doc, titleOrID, id)
		if t == nil {
			return &task.NotFoundError{Kind: "task", ID: id}
		}
		for _, step := range DecomposeSteps {
			t.Subtasks = append(t.Subtasks, task.Subtask{Description: step})
		}
		now := p.now().UTC()
		t.UpdatedAt = &now
		updated = *t
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

func resolveTarget(doc *task.Document, title string, id int) *task.Task {
	if id > 0 {
		return doc.FindTask(id)
	}

	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return nil
	}

	var best *task.Task
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		if best == nil || t.CreatedAt.After(best.CreatedAt) ||
			(t.CreatedAt.Equal(best.CreatedAt) && t.ID > best.ID) {
			best = t
		}
	}
	return best
}
