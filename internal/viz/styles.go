package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	right  lipgloss.Style
	left   lipgloss.Style
	status lipgloss.Style
	paused lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		right:  lipgloss.NewStyle().Foreground(t.Right).Bold(true),
		left:   lipgloss.NewStyle().Foreground(t.Left).Bold(true),
		status: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		graph:  lipgloss.NewStyle().Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
	}
}

// ProgressBar renders a playback position in [0, 1].
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// LoadBar renders a force as a share of body weight, saturating at 1.5.
func LoadBar(force, weight float64, width int) string {
	if weight <= 0 {
		return ProgressBar(0, width)
	}
	return ProgressBar(force/weight/1.5, width)
}
