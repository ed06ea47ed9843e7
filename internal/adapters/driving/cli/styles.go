package cli

import "github.com/charmbracelet/lipgloss"

// Output styles shared by the commands.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	labelStyle = lipgloss.NewStyle().
			Bold(true)
)
