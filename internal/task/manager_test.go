package task

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewManager(s)
}

func TestAddTask(t *testing.T) {
	t.Run("ids are strictly increasing and unique", func(t *testing.T) {
		m := newTestManager(t)

		seen := make(map[int]bool)
		last := 0
		for _, title := range []string{"one", "two", "three", "four"} {
			created, ok, err := m.AddTask(title, "", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Fatalf("task %q reported as duplicate", title)
			}
			if created.ID <= last {
				t.Errorf("id %d not greater than previous %d", created.ID, last)
			}
			if seen[created.ID] {
				t.Errorf("id %d reused", created.ID)
			}
			seen[created.ID] = true
			last = created.ID
		}
	})

	t.Run("defaults", func(t *testing.T) {
		m := newTestManager(t)

		created, _, err := m.AddTask("Buy groceries", "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Priority != PriorityMedium {
			t.Errorf("priority = %q, want %q", created.Priority, PriorityMedium)
		}
		if created.Status != StatusPending {
			t.Errorf("status = %q, want %q", created.Status, StatusPending)
		}
	})

	t.Run("empty title is a validation error", func(t *testing.T) {
		m := newTestManager(t)

		_, _, err := m.AddTask("   ", "", nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown priority is a validation error", func(t *testing.T) {
		m := newTestManager(t)

		_, _, err := m.AddTask("x", "urgent", nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("duplicate title and due date reports existing task", func(t *testing.T) {
		m := newTestManager(t)

		first, _, err := m.AddTask("Buy milk", "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, created, err := m.AddTask("buy MILK", "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created {
			t.Error("duplicate reported as created")
		}
		if second.ID != first.ID {
			t.Errorf("got id %d, want existing id %d", second.ID, first.ID)
		}
		if got := len(m.ListTasks(Filter{})); got != 1 {
			t.Errorf("store has %d tasks, want 1", got)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		m := newTestManager(t)
		created, _, _ := m.AddTask("x", "", nil)

		updated, err := m.UpdateStatus(created.ID, StatusDone)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != StatusDone {
			t.Errorf("status = %q, want %q", updated.Status, StatusDone)
		}
		if updated.UpdatedAt == nil {
			t.Error("UpdatedAt not set")
		}
	})

	t.Run("missing id on empty store leaves store unchanged", func(t *testing.T) {
		m := newTestManager(t)

		_, err := m.UpdateStatus(999, StatusDone)
		var nferr *NotFoundError
		if !errors.As(err, &nferr) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if got := len(m.ListTasks(Filter{})); got != 0 {
			t.Errorf("store has %d tasks, want 0", got)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		m := newTestManager(t)
		created, _, _ := m.AddTask("x", "", nil)

		_, err := m.UpdateStatus(created.ID, "postponed")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	m := newTestManager(t)
	created, _, _ := m.AddTask("x", "", nil)
	m.AddSubtasks(created.ID, []string{"a", "b"})

	if err := m.DeleteTask(created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every follow-up reference must be a not-found error.
	var nferr *NotFoundError
	if err := m.DeleteTask(created.ID); !errors.As(err, &nferr) {
		t.Errorf("delete after delete: expected NotFoundError, got %v", err)
	}
	if _, err := m.UpdateStatus(created.ID, StatusDone); !errors.As(err, &nferr) {
		t.Errorf("update after delete: expected NotFoundError, got %v", err)
	}
	if _, err := m.AddSubtasks(created.ID, []string{"c"}); !errors.As(err, &nferr) {
		t.Errorf("add subtasks after delete: expected NotFoundError, got %v", err)
	}
}

func TestListTasks(t *testing.T) {
	m := newTestManager(t)
	m.AddTask("low one", PriorityLow, nil)
	m.AddTask("high one", PriorityHigh, nil)
	m.AddTask("medium one", PriorityMedium, nil)
	m.AddTask("high two", PriorityHigh, nil)
	m.AddTask("high three", PriorityHigh, nil)

	t.Run("orders by priority rank then id", func(t *testing.T) {
		got := m.ListTasks(Filter{})
		wantTitles := []string{"high one", "high two", "high three", "medium one", "low one"}
		if len(got) != len(wantTitles) {
			t.Fatalf("got %d tasks, want %d", len(got), len(wantTitles))
		}
		for i, w := range wantTitles {
			if got[i].Title != w {
				t.Errorf("position %d: got %q, want %q", i, got[i].Title, w)
			}
		}
	})

	t.Run("priority filter with top N", func(t *testing.T) {
		got := m.ListTasks(Filter{Priority: PriorityHigh, Top: 2})
		if len(got) != 2 {
			t.Fatalf("got %d tasks, want 2", len(got))
		}
		for _, tk := range got {
			if tk.Priority != PriorityHigh {
				t.Errorf("task %d priority = %q, want high", tk.ID, tk.Priority)
			}
		}
		if got[0].ID >= got[1].ID {
			t.Errorf("ids not ascending: %d, %d", got[0].ID, got[1].ID)
		}
	})

	t.Run("top larger than result set", func(t *testing.T) {
		got := m.ListTasks(Filter{Priority: PriorityLow, Top: 10})
		if len(got) != 1 {
			t.Errorf("got %d tasks, want 1", len(got))
		}
	})
}

func TestCleanup(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cutoff := base.AddDate(0, 0, -30)

	setup := func(t *testing.T) *Manager {
		m := newTestManager(t)

		// Done and old: removed.
		m.WithClock(func() time.Time { return cutoff.Add(-time.Hour) })
		old, _, _ := m.AddTask("done old", "", nil)
		m.UpdateStatus(old.ID, StatusDone)

		// Done exactly at the cutoff: kept (strictly before only).
		m.WithClock(func() time.Time { return cutoff })
		at, _, _ := m.AddTask("done at cutoff", "", nil)
		m.UpdateStatus(at.ID, StatusDone)

		// Old but pending: kept.
		m.WithClock(func() time.Time { return cutoff.Add(-time.Hour) })
		m.AddTask("pending old", "", nil)

		// Done but recent: kept.
		m.WithClock(func() time.Time { return base })
		recent, _, _ := m.AddTask("done recent", "", nil)
		m.UpdateStatus(recent.ID, StatusDone)
		return m
	}

	t.Run("removes exactly the old done tasks", func(t *testing.T) {
		m := setup(t)

		removed, err := m.Cleanup(cutoff)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if removed != 1 {
			t.Errorf("removed = %d, want 1", removed)
		}

		remaining := m.ListTasks(Filter{})
		if len(remaining) != 3 {
			t.Fatalf("got %d remaining tasks, want 3", len(remaining))
		}
		for _, tk := range remaining {
			if tk.Title == "done old" {
				t.Error("task 'done old' should have been removed")
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		m := setup(t)
		m.Cleanup(cutoff)

		removed, err := m.Cleanup(cutoff)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if removed != 0 {
			t.Errorf("second run removed = %d, want 0", removed)
		}
	})
}

func TestSubtasks(t *testing.T) {
	t.Run("append with sequential indices and mark one done", func(t *testing.T) {
		m := newTestManager(t)
		m.AddTask("a", "", nil)
		m.AddTask("b", "", nil)
		third, _, _ := m.AddTask("c", "", nil)

		updated, err := m.AddSubtasks(third.ID, []string{"research", "outline"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.Subtasks) != 2 {
			t.Fatalf("got %d subtasks, want 2", len(updated.Subtasks))
		}
		if updated.Subtasks[0].Description != "research" || updated.Subtasks[1].Description != "outline" {
			t.Errorf("subtask order wrong: %+v", updated.Subtasks)
		}

		updated, err = m.MarkSubtaskDone(third.ID, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.Subtasks[0].Done {
			t.Error("subtask 0 not marked done")
		}
		if updated.Subtasks[1].Done {
			t.Error("subtask 1 must stay unchanged")
		}
	})

	t.Run("out-of-range index", func(t *testing.T) {
		m := newTestManager(t)
		created, _, _ := m.AddTask("a", "", nil)
		m.AddSubtasks(created.ID, []string{"only one"})

		var nferr *NotFoundError
		if _, err := m.MarkSubtaskDone(created.ID, 1); !errors.As(err, &nferr) {
			t.Errorf("expected NotFoundError for index 1, got %v", err)
		}
		if _, err := m.MarkSubtaskDone(created.ID, -1); !errors.As(err, &nferr) {
			t.Errorf("expected NotFoundError for index -1, got %v", err)
		}
	})

	t.Run("empty descriptions rejected", func(t *testing.T) {
		m := newTestManager(t)
		created, _, _ := m.AddTask("a", "", nil)

		var verr *ValidationError
		if _, err := m.AddSubtasks(created.ID, nil); !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}
