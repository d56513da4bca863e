package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#1DB954")
	muted  = lipgloss.Color("#B3B3B3")
	dim    = lipgloss.Color("240")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			MarginTop(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(muted)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	currentStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	captionStyle = lipgloss.NewStyle().
			Foreground(dim)

	artistStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	hintStyle = lipgloss.NewStyle().
			Foreground(dim)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	barStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(dim)
)
