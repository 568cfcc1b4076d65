package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/shelfscan/internal/core"
)

// Header displays the app name, list stats and scanner status (2 lines)
type Header struct {
	width    int
	version  string
	shown    int
	total    int
	canScan  bool
	phase    core.Phase
	lastISBN string
	location string
}

// NewHeader creates a new header component
func NewHeader(version string, canScan bool) Header {
	return Header{
		version: version,
		canScan: canScan,
	}
}

// SetCounts sets how many books are shown out of the total
func (h *Header) SetCounts(shown, total int) {
	h.shown = shown
	h.total = total
}

// SetPhase sets the current scan phase
func (h *Header) SetPhase(phase core.Phase) {
	h.phase = phase
}

// SetLastISBN records the last scanned ISBN
func (h *Header) SetLastISBN(isbn string) {
	h.lastISBN = isbn
}

// SetLocation sets the shareable location shown on the right
func (h *Header) SetLocation(loc string) {
	h.location = loc
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header
// Line 1: ShelfScan 0.1.0                              12 of 240 books
// Line 2: Camera: ready  last 9780143127741     shelfscan://books/?search=...
func (h Header) View(spinner string) string {
	nameStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ColorDim)
	labelStyle := lipgloss.NewStyle().Foreground(ColorDim)

	// === LINE 1: App name (left) | Book counts (right) ===
	appName := nameStyle.Render("ShelfScan") + dimStyle.Render(" "+h.version)
	counts := StatsStyle.Render(fmt.Sprintf("%d", h.shown)) +
		labelStyle.Render(fmt.Sprintf(" of %d books", h.total))
	line1 := spread(appName, counts, h.width)

	// === LINE 2: Scanner status (left) | Location (right) ===
	var status string
	switch {
	case !h.canScan:
		status = labelStyle.Render("Camera: ") + dimStyle.Render("unavailable")
	case h.phase == core.PhaseRequesting || h.phase == core.PhaseScanning:
		busy := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
		status = labelStyle.Render("Camera: ") + busy.Render(spinner+" "+h.phase.String())
	default:
		ready := lipgloss.NewStyle().Foreground(ColorSuccess)
		status = labelStyle.Render("Camera: ") + ready.Render("ready")
	}
	if h.lastISBN != "" {
		status += labelStyle.Render("  last ") + ISBNStyle.Render(h.lastISBN)
	}

	loc := dimStyle.Render(truncate(h.location, h.width-lipgloss.Width(status)-4))
	line2 := spread(status, loc, h.width)

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2)
}

// spread places left and right on one line separated by padding
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
