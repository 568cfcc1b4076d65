package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 14 // Width for key column in help text (includes padding)

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	visible bool
	width   int
	height  int
	version string
	caps    Capabilities
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay(version string, caps Capabilities) HelpOverlay {
	return HelpOverlay{
		version: version,
		caps:    caps,
	}
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (ho *HelpOverlay) SetSize(w, h int) {
	ho.width = w
	ho.height = h
}

// View renders the help overlay
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 3)

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	keyStyle := HelpOverlayKey
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var content strings.Builder

	nameStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	versionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	content.WriteString(nameStyle.Render("ShelfScan"))
	if h.version != "" {
		content.WriteString(versionStyle.Render(" " + h.version))
	}
	content.WriteString("\n")

	content.WriteString(sectionStyle.Render("Books"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "↑↓ jk", "Move", true))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "PgUp/PgDn", "Scroll faster", true))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "g / G", "Top / Bottom", true))

	content.WriteString(sectionStyle.Render("Search"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "/", "Edit search", true))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Enter", "Apply and share", true))
	if h.caps.CanScan() {
		content.WriteString(formatHelpLine(keyStyle, descStyle, "s", "Scan an ISBN barcode", true))
		content.WriteString(formatHelpLine(keyStyle, descStyle, "Esc", "Cancel scan", true))
	}
	if h.caps.Clipboard {
		content.WriteString(formatHelpLine(keyStyle, descStyle, "c", "Copy search to clipboard", true))
	}
	content.WriteString(formatHelpLine(keyStyle, descStyle, "q", "Quit", true))

	content.WriteString("\n")
	content.WriteString(dimStyle.Render("Press any key to close"))

	box := boxStyle.Render(content.String())

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

// formatHelpLine formats a single help line with key and description
func formatHelpLine(keyStyle, descStyle lipgloss.Style, key, desc string, newline bool) string {
	line := keyStyle.Width(helpKeyColumnWidth).Render(key) + descStyle.Render(desc)
	if newline {
		return line + "\n"
	}
	return line
}

// HelpBar renders a bottom help bar with key hints
func HelpBar(width int, caps Capabilities) string {
	descStyle := lipgloss.NewStyle().Foreground(ColorDim)

	type hint struct {
		key  string
		desc string
	}

	fullHints := []hint{{"↑↓", "move"}, {"/", "search"}}
	if caps.CanScan() {
		fullHints = append(fullHints, hint{"s", "scan"})
	}
	if caps.Clipboard {
		fullHints = append(fullHints, hint{"c", "copy"})
	}
	fullHints = append(fullHints, hint{"?", "help"}, hint{"q", "quit"})

	// Minimal hints for very narrow terminals
	minimalHints := []hint{
		{"?", "help"},
		{"q", "quit"},
	}

	hints := fullHints
	if width < 60 {
		hints = minimalHints
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, HelpKey.Render(h.key)+" "+descStyle.Render(h.desc))
	}

	separator := "   "
	if width < 80 {
		separator = "  "
	}

	bar := strings.Join(parts, separator)

	return HelpStyle.Width(width).MaxHeight(1).Render(bar)
}
