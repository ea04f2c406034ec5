package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme defines color scheme for the replay
type Theme struct {
	Name    string
	Right   lipgloss.Color
	Left    lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color

	// chart series colors for right and left
	RightSeries asciigraph.AnsiColor
	LeftSeries  asciigraph.AnsiColor
}

var (
	ThemeDefault = Theme{
		Name:        "default",
		Right:       lipgloss.Color("#00ccff"),
		Left:        lipgloss.Color("#ff66cc"),
		Accent:      lipgloss.Color("#00ff88"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666688"),
		Warning:     lipgloss.Color("#ffaa00"),
		RightSeries: asciigraph.DeepSkyBlue,
		LeftSeries:  asciigraph.HotPink,
	}

	ThemeRetroGreen = Theme{
		Name:        "retro",
		Right:       lipgloss.Color("#00ff00"),
		Left:        lipgloss.Color("#88ff88"),
		Accent:      lipgloss.Color("#ccffcc"),
		Text:        lipgloss.Color("#00ff00"),
		Muted:       lipgloss.Color("#005500"),
		Warning:     lipgloss.Color("#ffff00"),
		RightSeries: asciigraph.Green,
		LeftSeries:  asciigraph.LightGreen,
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Right:       lipgloss.Color("#ffffff"),
		Left:        lipgloss.Color("#aaaaaa"),
		Accent:      lipgloss.Color("#0088ff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Warning:     lipgloss.Color("#ffaa00"),
		RightSeries: asciigraph.White,
		LeftSeries:  asciigraph.Default,
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme cycles through Themes after the named one.
func nextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDefault
}
