package viz

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213"))

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Italic(true)
)
