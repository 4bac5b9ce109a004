package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text

	// titleStyle for the header line
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// userStyle for the user's own messages
	userStyle = lipgloss.NewStyle().
			Bold(true)

	// agentStyle for assistant replies
	agentStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	// hintStyle for the help line at the bottom
	hintStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)
