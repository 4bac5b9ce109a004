package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Document is the persisted shape of the store: two ordered collections
// serialized as a single JSON file.
type Document struct {
	Tasks []Task `json:"tasks"`
	Goals []Goal `json:"goals"`
}

// Store owns the task/goal document and its persistence. All access goes
// through View or Update, which serialize behind a single mutex so that
// read-modify-write sequences (next id, then insert) never interleave.
type Store struct {
	path string

	mu         sync.Mutex
	doc        Document
	nextTaskID int
	nextGoalID int
}

// Open loads the store document from path, or starts empty if the file does
// not exist yet. The parent directory is created on first save.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.resetCounters()
			return s, nil
		}
		return nil, &PersistenceError{Op: "read", Err: err}
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, &PersistenceError{Op: "parse", Err: err}
	}

	s.resetCounters()
	return s, nil
}

// resetCounters sets the id high-water marks from the loaded document.
// Ids are never reused within a session, even after deletes.
func (s *Store) resetCounters() {
	s.nextTaskID = 1
	for _, t := range s.doc.Tasks {
		if t.ID >= s.nextTaskID {
			s.nextTaskID = t.ID + 1
		}
	}
	s.nextGoalID = 1
	for _, g := range s.doc.Goals {
		if g.ID >= s.nextGoalID {
			s.nextGoalID = g.ID + 1
		}
	}
}

// Tx is the mutable view handed to Update callbacks. Id allocation is staged:
// ids consumed by a mutation that fails to persist are not committed.
type Tx struct {
	Doc *Document

	nextTaskID int
	nextGoalID int
}

// NextTaskID allocates the next task id within the transaction.
func (tx *Tx) NextTaskID() int {
	id := tx.nextTaskID
	tx.nextTaskID++
	return id
}

// NextGoalID allocates the next goal id within the transaction.
func (tx *Tx) NextGoalID() int {
	id := tx.nextGoalID
	tx.nextGoalID++
	return id
}

// Update applies fn to a deep copy of the document and persists the result.
// The copy is committed to memory only after the write succeeds, so a failed
// or rejected mutation leaves the store at its last-known-good state.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.doc.clone()
	tx := &Tx{Doc: &working, nextTaskID: s.nextTaskID, nextGoalID: s.nextGoalID}

	if err := fn(tx); err != nil {
		return err
	}

	if err := s.save(&working); err != nil {
		return err
	}

	s.doc = working
	s.nextTaskID = tx.nextTaskID
	s.nextGoalID = tx.nextGoalID
	return nil
}

// View runs fn against a read-only snapshot of the document.
func (s *Store) View(fn func(doc Document)) {
	s.mu.Lock()
	snapshot := s.doc.clone()
	s.mu.Unlock()
	fn(snapshot)
}

// save atomically writes the document: marshal, write to a temp file, fsync,
// rename over the target. The previous document is never left truncated.
func (s *Store) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "marshal", Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &PersistenceError{Op: "mkdir", Err: err}
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &PersistenceError{Op: "write", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &PersistenceError{Op: "sync", Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &PersistenceError{Op: "close", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &PersistenceError{Op: "rename", Err: err}
	}
	return nil
}

func (d Document) clone() Document {
	out := Document{
		Tasks: make([]Task, len(d.Tasks)),
		Goals: make([]Goal, len(d.Goals)),
	}
	for i, t := range d.Tasks {
		if len(t.Subtasks) > 0 {
			t.Subtasks = append([]Subtask(nil), t.Subtasks...)
		}
		out.Tasks[i] = t
	}
	for i, g := range d.Goals {
		if len(g.TaskIDs) > 0 {
			g.TaskIDs = append([]int(nil), g.TaskIDs...)
		}
		out.Goals[i] = g
	}
	return out
}

// FindTask returns a pointer into the document's task slice, or nil.
func (d *Document) FindTask(id int) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}
