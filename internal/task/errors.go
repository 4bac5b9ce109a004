package task

import "fmt"

// ValidationError indicates malformed input: an empty title, an unknown
// status or priority value, or an empty subtask list.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError indicates that a referenced task, goal, or subtask does not
// exist in the store.
type NotFoundError struct {
	Kind string // "task", "goal", or "subtask"
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// PersistenceError indicates that the store document could not be written or
// read. The in-memory store retains its last-known-good state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
