package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")
	colorWhite = lipgloss.Color("#FFFFFF")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorIris).
			Foreground(colorWhite)

	runningStyle = lipgloss.NewStyle().
			Foreground(colorIris).
			Bold(true)

	compiledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	cachedStyle = lipgloss.NewStyle().
			Foreground(colorSlate).
			Faint(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red

	detailStyle = lipgloss.NewStyle().
			Foreground(colorSlate)
)
