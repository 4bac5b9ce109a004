package planner

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pablasso/smarttask/internal/task"
)

func newTestPlanner(t *testing.T) (*Planner, *task.Manager) {
	t.Helper()
	s, err := task.Open(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(s), task.NewManager(s)
}

func TestSetGoal(t *testing.T) {
	t.Run("creates active goal with verbatim horizon", func(t *testing.T) {
		p, _ := newTestPlanner(t)

		g, err := p.SetGoal("learn Go", "in 3 months")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.ID != 1 {
			t.Errorf("id = %d, want 1", g.ID)
		}
		if g.Status != task.GoalStatusActive {
			t.Errorf("status = %q, want active", g.Status)
		}
		if g.Horizon != "in 3 months" {
			t.Errorf("horizon = %q, want the phrase verbatim", g.Horizon)
		}
	})

	t.Run("empty description rejected", func(t *testing.T) {
		p, _ := newTestPlanner(t)

		_, err := p.SetGoal("  ", "")
		var verr *task.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestListGoals(t *testing.T) {
	p, _ := newTestPlanner(t)

	times := []time.Time{
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	p.WithClock(func() time.Time { t := times[i]; i++; return t })

	p.SetGoal("first", "")
	p.SetGoal("second", "")
	p.SetGoal("third", "")

	goals := p.ListGoals()
	if len(goals) != 3 {
		t.Fatalf("got %d goals, want 3", len(goals))
	}
	want := []string{"third", "second", "first"}
	for idx, w := range want {
		if goals[idx].Description != w {
			t.Errorf("position %d: got %q, want %q", idx, goals[idx].Description, w)
		}
	}
}

func TestLinkTask(t *testing.T) {
	p, m := newTestPlanner(t)
	g, _ := p.SetGoal("learn Go", "")
	tk, _, _ := m.AddTask("read the tour", "", nil)

	if err := p.LinkTask(g.ID, tk.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	goals := p.ListGoals()
	if len(goals[0].TaskIDs) != 1 || goals[0].TaskIDs[0] != tk.ID {
		t.Errorf("task ids = %v, want [%d]", goals[0].TaskIDs, tk.ID)
	}

	// Weak reference: deleting the task leaves the goal intact.
	if err := m.DeleteTask(tk.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	goals = p.ListGoals()
	if len(goals) != 1 {
		t.Errorf("goal vanished with its task")
	}

	var nferr *task.NotFoundError
	if err := p.LinkTask(99, tk.ID); !errors.As(err, &nferr) {
		t.Errorf("expected NotFoundError for missing goal, got %v", err)
	}
}

func TestDecompose(t *testing.T) {
	t.Run("by id appends the standard steps", func(t *testing.T) {
		p, m := newTestPlanner(t)
		tk, _, _ := m.AddTask("write blog post", "", nil)

		got, err := p.Decompose("", tk.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Subtasks) != len(DecomposeSteps) {
			t.Fatalf("got %d subtasks, want %d", len(got.Subtasks), len(DecomposeSteps))
		}
		for i, step := range DecomposeSteps {
			if got.Subtasks[i].Description != step {
				t.Errorf("subtask %d = %q, want %q", i, got.Subtasks[i].Description, step)
			}
		}
	})

	t.Run("by substring picks most recent match", func(t *testing.T) {
		p, m := newTestPlanner(t)

		m.WithClock(func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) })
		m.AddTask("Write weekly report", "", nil)
		m.WithClock(func() time.Time { return time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC) })
		newer, _, _ := m.AddTask("Write monthly REPORT", "", nil)

		got, err := p.Decompose("report", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != newer.ID {
			t.Errorf("resolved task %d, want most recent %d", got.ID, newer.ID)
		}
	})

	t.Run("no match", func(t *testing.T) {
		p, m := newTestPlanner(t)
		m.AddTask("something else", "", nil)

		var nferr *task.NotFoundError
		if _, err := p.Decompose("nonexistent", 0); !errors.As(err, &nferr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
		if _, err := p.Decompose("", 42); !errors.As(err, &nferr) {
			t.Errorf("expected NotFoundError for missing id, got %v", err)
		}
	})
}
