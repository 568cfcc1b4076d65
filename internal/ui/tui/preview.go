package tui

import (
	"image"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/shelfscan/internal/camera"
)

const previewInterval = 200 * time.Millisecond

// asciiRamp maps luminance from dark to bright
const asciiRamp = " .:-=+*#%@"

type (
	previewTickMsg  struct{ stream camera.Stream }
	previewFrameMsg struct {
		stream camera.Stream
		img    image.Image
	}
)

// FramePreview shows the live camera feed while a scan is running
type FramePreview struct {
	stream   camera.Stream
	rendered string
	width    int
	height   int
}

// NewFramePreview creates a hidden preview
func NewFramePreview() FramePreview {
	return FramePreview{}
}

// Show binds the preview to a stream and starts refreshing it
func (p *FramePreview) Show(stream camera.Stream) tea.Cmd {
	p.stream = stream
	p.rendered = ""
	return p.tick()
}

// Hide unbinds the stream
func (p *FramePreview) Hide() {
	p.stream = nil
	p.rendered = ""
}

// IsVisible returns whether a stream is bound
func (p FramePreview) IsVisible() bool {
	return p.stream != nil
}

// SetSize sets the preview dimensions (including border)
func (p *FramePreview) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p FramePreview) tick() tea.Cmd {
	stream := p.stream
	return tea.Tick(previewInterval, func(time.Time) tea.Msg {
		return previewTickMsg{stream: stream}
	})
}

// Update handles preview messages. Messages for a stream that is no
// longer shown are dropped, which also ends the refresh loop.
func (p FramePreview) Update(msg tea.Msg) (FramePreview, tea.Cmd) {
	switch msg := msg.(type) {
	case previewTickMsg:
		if msg.stream == nil || msg.stream != p.stream {
			return p, nil
		}
		stream := msg.stream
		return p, func() tea.Msg {
			img, err := stream.Frame()
			if err != nil {
				img = nil
			}
			return previewFrameMsg{stream: stream, img: img}
		}

	case previewFrameMsg:
		if msg.stream != p.stream {
			return p, nil
		}
		if msg.img != nil {
			p.rendered = renderFrame(msg.img, p.width-2, p.height-2)
		}
		return p, p.tick()
	}
	return p, nil
}

// View renders the preview panel
func (p FramePreview) View() string {
	if !p.IsVisible() {
		return ""
	}
	content := p.rendered
	if content == "" {
		waiting := lipgloss.NewStyle().Foreground(ColorDim).Italic(true)
		content = lipgloss.Place(p.width-2, p.height-2, lipgloss.Center, lipgloss.Center,
			waiting.Render("Waiting for camera…"))
	}
	return PreviewPanelStyle.Render(content)
}

// renderFrame draws img as w×h characters of an ASCII luminance ramp
func renderFrame(img image.Image, w, h int) string {
	b := img.Bounds()
	if w < 1 || h < 1 || b.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.Grow((w + 1) * h)
	for y := 0; y < h; y++ {
		sy := b.Min.Y + y*b.Dy()/h
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			g := color.GrayModel.Convert(img.At(sx, sy)).(color.Gray)
			sb.WriteByte(asciiRamp[int(g.Y)*(len(asciiRamp)-1)/255])
		}
		if y < h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
