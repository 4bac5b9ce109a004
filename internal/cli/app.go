package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pablasso/smarttask/internal/ai"
	"github.com/pablasso/smarttask/internal/bot"
	"github.com/pablasso/smarttask/internal/config"
	"github.com/pablasso/smarttask/internal/obs"
	"github.com/pablasso/smarttask/internal/session"
	"github.com/pablasso/smarttask/internal/task"
)

// App bundles the wired components behind every command.
type App struct {
	Config  *config.Config
	Store   *task.Store
	Tracker *obs.Tracker
	Bot     *bot.Bot
}

// LoadApp builds the application from .smarttask/config.yaml (or defaults)
// in the current directory.
func LoadApp() (*App, error) {
	cfg, err := config.Load(filepath.Join(config.DefaultDataDir, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := task.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}

	tracker := obs.New(cfg.EventsPath())
	b := bot.New(store, tracker)

	if cfg.Fallback && ai.IsClaudeAvailable() {
		b.WithFallback(ai.Claude{})
	}

	return &App{Config: cfg, Store: store, Tracker: tracker, Bot: b}, nil
}

// StartSession attaches a fresh persisted chat session to the bot.
// Transcript persistence is best-effort; a failure only disables it.
func (a *App) StartSession() {
	storage := session.NewStorage(a.Config.SessionsDir())
	s, err := storage.NewSession()
	if err != nil {
		return
	}
	a.Bot.WithSession(storage, s)
}
