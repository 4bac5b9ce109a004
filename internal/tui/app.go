// Package tui provides the full-screen chat interface, launched when the
// binary runs with no arguments.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Processor handles one utterance and returns the reply text.
type Processor interface {
	Process(ctx context.Context, text string) string
}

// replyMsg carries an assistant reply back into the update loop.
type replyMsg struct {
	text string
}

// Model is the chat TUI: a scrollback viewport over an input field.
type Model struct {
	bot      Processor
	input    textinput.Model
	view     viewport.Model
	lines    []string
	thinking bool
	ready    bool
	width    int
	height   int
}

// NewModel creates the chat model over the given processor.
func NewModel(bot Processor) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message... (Enter to send, Esc to quit)"
	ti.Prompt = "you> "
	ti.Focus()

	return Model{
		bot:   bot,
		input: ti,
		lines: []string{agentStyle.Render("agent> Hello! I'm SmartTask. How can I help with your tasks?")},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewHeight := msg.Height - 4 // header, input, hint
		if viewHeight < 1 {
			viewHeight = 1
		}
		if !m.ready {
			m.view = viewport.New(msg.Width, viewHeight)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = viewHeight
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.thinking {
				return m, nil
			}
			switch strings.ToLower(text) {
			case "q", "quit", "exit":
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.lines = append(m.lines, userStyle.Render("you> ")+text)
			m.thinking = true
			m.refresh()
			return m, m.process(text)
		}

	case replyMsg:
		m.thinking = false
		for _, line := range strings.Split(msg.text, "\n") {
			m.lines = append(m.lines, agentStyle.Render("agent> ")+line)
		}
		m.lines = append(m.lines, "")
		m.refresh()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.view, cmd = m.view.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// process runs the bot off the update loop so the UI stays responsive.
func (m Model) process(text string) tea.Cmd {
	bot := m.bot
	return func() tea.Msg {
		return replyMsg{text: bot.Process(context.Background(), text)}
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(strings.Join(m.lines, "\n"))
	m.view.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("SmartTask")
	hint := hintStyle.Render("Enter to send · Esc to quit")
	if m.thinking {
		hint = hintStyle.Render("thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.view.View(),
		m.input.View(),
		hint,
	)
}

// Run starts the chat TUI over the given processor and blocks until exit.
func Run(bot Processor) error {
	p := tea.NewProgram(NewModel(bot), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
