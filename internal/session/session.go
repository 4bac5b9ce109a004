// Package session persists chat transcripts so the language-model fallback
// can see recent context.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pablasso/smarttask/internal/util"
)

// Exchange is one user message and the assistant's reply.
type Exchange struct {
	User  string    `json:"user"`
	Reply string    `json:"reply"`
	At    time.Time `json:"at"`
}

// Session tracks a single conversation.
type Session struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Exchanges []Exchange `json:"exchanges,omitempty"`
}

// Record appends an exchange to the session.
func (s *Session) Record(user, reply string) {
	s.Exchanges = append(s.Exchanges, Exchange{User: user, Reply: reply, At: time.Now().UTC()})
}

// Recent returns the last n exchanges formatted for prompt context.
func (s *Session) Recent(n int) []string {
	start := len(s.Exchanges) - n
	if start < 0 {
		start = 0
	}
	var out []string
	for _, e := range s.Exchanges[start:] {
		out = append(out, "user: "+e.User, "assistant: "+e.Reply)
	}
	return out
}

// Storage manages session persistence.
type Storage struct {
	dir string
}

// NewStorage creates a storage instance for the given sessions directory.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// NewSession creates and persists a fresh session.
func (st *Storage) NewSession() (*Session, error) {
	id, err := util.GenerateShortID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	s := &Session{ID: id, CreatedAt: time.Now().UTC()}
	if err := st.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save persists a session to disk with atomic writes.
func (st *Storage) Save(s *Session) error {
	s.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	filename := st.filename(s.ID)
	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write session temp file: %w", err)
	}
	if err := os.Rename(tmpFile, filename); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename session temp file: %w", err)
	}
	return nil
}

// Load retrieves a session by id.
func (st *Storage) Load(id string) (*Session, error) {
	data, err := os.ReadFile(st.filename(id))
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &s, nil
}

// List returns all sessions, most recently updated first.
func (st *Storage) List() ([]*Session, error) {
	pattern := filepath.Join(st.dir, "*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob sessions: %w", err)
	}

	var sessions []*Session
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		sessions = append(sessions, &s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// Delete removes a session file. Returns nil if the file doesn't exist (idempotent).
func (st *Storage) Delete(id string) error {
	err := os.Remove(st.filename(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (st *Storage) filename(id string) string {
	return filepath.Join(st.dir, id+".json")
}
