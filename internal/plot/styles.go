package plot

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	axisLimit   = 1.1 // magnitude axis spans [-axisLimit, axisLimit]
	minWidth    = 40  // narrowest chart Render will draw
	valueW      = 7   // width of the printed value column, e.g. "+0.707"
	footerLines = 1   // help line below the viewport
)

// Lipgloss styles used by the chart.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bb9af7"))

	stateLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	positiveBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#73daca"))

	negativeBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f7768e"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))
)
