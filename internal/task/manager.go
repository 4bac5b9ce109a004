package task

import (
	"sort"
	"strings"
	"time"
)

// Manager applies task mutations and queries against a Store, enforcing
// validation rules.
type Manager struct {
	store *Store
	now   func() time.Time
}

// NewManager creates a Manager backed by the given store.
func NewManager(store *Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock sets a custom clock (useful for testing).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// AddTask creates a task with the next id and status pending. The returned
// bool is false when a task with the same title (case-insensitive) and due
// date already exists; the existing task is returned instead.
func (m *Manager) AddTask(title, priority string, due *time.Time) (Task, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false, validationf("task title must not be empty")
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return Task{}, false, validationf("invalid priority: %s", priority)
	}

	var created Task
	dup := false
	err := m.store.Update(func(tx *Tx) error {
		for _, t := range tx.Doc.Tasks {
			if strings.EqualFold(t.Title, title) && sameDate(t.DueDate, due) {
				created = t
				dup = true
				return nil
			}
		}
		created = Task{
			ID:        tx.NextTaskID(),
			Title:     title,
			Priority:  priority,
			Status:    StatusPending,
			DueDate:   due,
			CreatedAt: m.now().UTC(),
		}
		tx.Doc.Tasks = append(tx.Doc.Tasks, created)
		return nil
	})
	if err != nil {
		return Task{}, false, err
	}
	return created, !dup, nil
}

// UpdateStatus sets the status of the task with the given id.
func (m *Manager) UpdateStatus(id int, status string) (Task, error) {
	if !ValidStatus(status) {
		return Task{}, validationf("invalid status: %s", status)
	}

	var updated Task
	err := m.store.Update(func(tx *Tx) error {
		t := tx.Doc.FindTask(id)
		if t == nil {
			return &NotFoundError{Kind: "task", ID: id}
		}
		t.Status = status
		now := m.now().UTC()
		t.UpdatedAt = &now
		updated = *t
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

// DeleteTask removes the task with the given id along with its subtasks.
func (m *Manager) DeleteTask(id int) error {
	return m.store.Update(func(tx *Tx) error {
		for i := range tx.Doc.Tasks {
			if tx.Doc.Tasks[i].ID == id {
				tx.Doc.Tasks = append(tx.Doc.Tasks[:i], tx.Doc.Tasks[i+1:]...)
				return nil
			}
		}
		return &NotFoundError{Kind: "task", ID: id}
	})
}

// Filter narrows and truncates ListTasks results. Zero values mean "no
// constraint".
type Filter struct {
	Priority string
	Status   string
	Top      int
}

// ListTasks returns tasks matching the filter, ordered by priority rank
// (high before medium before low) then by id ascending. No side effects.
func (m *Manager) ListTasks(f Filter) []Task {
	var out []Task
	m.store.View(func(doc Document) {
		for _, t := range doc.Tasks {
			if f.Priority != "" && t.Priority != f.Priority {
				continue
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			out = append(out, t)
		}
	})

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := PriorityRank(out[i].Priority), PriorityRank(out[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})

	if f.Top > 0 && len(out) > f.Top {
		out = out[:f.Top]
	}
	return out
}

// Cleanup deletes all done tasks created before the cutoff and returns the
// number removed. Running it twice with the same cutoff removes zero on the
// second run.
func (m *Manager) Cleanup(cutoff time.Time) (int, error) {
	removed := 0
	err := m.store.Update(func(tx *Tx) error {
		kept := tx.Doc.Tasks[:0]
		for _, t := range tx.Doc.Tasks {
			if t.Status == StatusDone && t.CreatedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		tx.Doc.Tasks = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// AddSubtasks appends subtasks to the task with the given id, in order.
func (m *Manager) AddSubtasks(id int, descriptions []string) (Task, error) {
	if len(descriptions) == 0 {
		return Task{}, validationf("no subtasks given")
	}

	var updated Task
	err := m.store.Update(func(tx *Tx) error {
		t := tx.Doc.FindTask(id)
		if t == nil {
			return &NotFoundError{Kind: "task", ID: id}
		}
		for _, d := range descriptions {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			t.Subtasks = append(t.Subtasks, Subtask{Description: d})
		}
		now := m.now().UTC()
		t.UpdatedAt = &now
		updated = *t
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

// MarkSubtaskDone sets the done flag of the subtask at index within the task
// with the given id.
func (m *Manager) MarkSubtaskDone(id, index int) (Task, error) {
	var updated Task
	err := m.store.Update(func(tx *Tx) error {
		t := tx.Doc.FindTask(id)
		if t == nil {
			return &NotFoundError{Kind: "task", ID: id}
		}
		if index < 0 || index >= len(t.Subtasks) {
			return &NotFoundError{Kind: "subtask", ID: index}
		}
		now := m.now().UTC()
		t.Subtasks[index].Done = true
		t.Subtasks[index].CompletedAt = &now
		t.UpdatedAt = &now
		updated = *t
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
