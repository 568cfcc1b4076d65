package tui

import "github.com/charmbracelet/lipgloss"

// Colors - cyberpunk/neon palette
var (
	ColorPrimary    = lipgloss.Color("#C084FC") // soft violet
	ColorSuccess    = lipgloss.Color("#39FF14") // neon green
	ColorDanger     = lipgloss.Color("#FF5555") // red
	ColorMuted      = lipgloss.Color("#4A5568") // darker muted
	ColorBorder     = lipgloss.Color("#4A5568") // border
	ColorBackground = lipgloss.Color("#1F1F23") // dark background
	ColorCyan       = lipgloss.Color("#00FFFF") // neon cyan
	ColorText       = lipgloss.Color("#E4E4E7") // default text
	ColorDim        = lipgloss.Color("#9CA3AF") // labels
	ColorISBN       = lipgloss.Color("#5EEAD4") // teal
)

// Styles
var (
	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Search bar
	SearchPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	SearchPanelFocused = SearchPanelStyle.
				BorderForeground(ColorPrimary)

	ButtonStyle = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1).
			Bold(true)

	ButtonDisabled = lipgloss.NewStyle().
			Background(lipgloss.Color("#3F3F46")).
			Foreground(lipgloss.Color("#71717A")).
			Padding(0, 1)

	// Book list
	ListHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Bold(true)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ListItemSelected = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	ISBNStyle = lipgloss.NewStyle().
			Foreground(ColorISBN)

	// Camera preview
	PreviewPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorCyan)

	// Popover message
	PopoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Foreground(ColorText).
			Padding(0, 2)

	// Help bar - dimmer with bright key highlights
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D4555")). // very dim
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorCyan).
		Background(lipgloss.Color("#1E3A4C")). // subtle dark cyan bg
		Padding(0, 1)

	// Help overlay key style (no background for cleaner look)
	HelpOverlayKey = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Padding(0, 1)
)

// truncate shortens s to at most width cells, adding an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
