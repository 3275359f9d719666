package tui

import "github.com/charmbracelet/lipgloss"

var (
	purple = lipgloss.Color("#A78BFA")
	blue   = lipgloss.Color("#60A5FA")
	muted  = lipgloss.Color("#6B7280")
	red    = lipgloss.Color("#DC2626")
	green  = lipgloss.Color("#16A34A")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(purple)
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Foreground(red)
	doneStyle     = lipgloss.NewStyle().Foreground(green)
	cursorStyle   = lipgloss.NewStyle().Foreground(blue).Bold(true)
	cardStyle     = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1)
)
