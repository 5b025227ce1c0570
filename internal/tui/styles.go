package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/interviewpro/cli/internal/uploader"
)

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent — interviewpro teal
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06c75"))

	creditStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))
)

// statusStyle colors an upload queue status.
func statusStyle(s uploader.Status) lipgloss.Style {
	switch s {
	case uploader.StatusConfirmed:
		return okStyle
	case uploader.StatusFailed:
		return errStyle
	case uploader.StatusTransferring:
		return warnStyle
	default:
		return dimStyle
	}
}

// tagStyle colors a role tag chip.
func tagStyle(tag string) lipgloss.Style {
	c, ok := tagColors[tag]
	if !ok {
		c = lipgloss.Color("#606878")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var tagColors = map[string]lipgloss.Color{
	"engineering": lipgloss.Color("#60a0e0"),
	"backend":     lipgloss.Color("#60a0e0"),
	"frontend":    lipgloss.Color("#d4a844"),
	"data":        lipgloss.Color("#3ecce4"),
	"design":      lipgloss.Color("#c084e0"),
	"product":     lipgloss.Color("#b080d0"),
	"marketing":   lipgloss.Color("#f0944a"),
	"sales":       lipgloss.Color("#e06060"),
	"hr":          lipgloss.Color("#8890a0"),
	"finance":     lipgloss.Color("#d4a844"),
	"operations":  lipgloss.Color("#f0944a"),
	"management":  lipgloss.Color("#b080d0"),
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
