package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/shelfscan/internal/camera"
	"github.com/lumipallolabs/shelfscan/internal/logging"
)

// Messages sent by the scan controller through the bridge
type (
	setSearchMsg   struct{ value string }
	showMessageMsg struct{ text string }
	triggerMsg     struct{ enabled bool }
	frameViewMsg   struct{ stream camera.Stream } // nil stream hides the view
)

// bridge implements the controller's page collaborators by forwarding
// each call to the Bubble Tea update loop, which owns all UI state.
type bridge struct {
	ch chan tea.Msg
}

func newBridge() *bridge {
	return &bridge{ch: make(chan tea.Msg, 64)}
}

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
		logging.Debug.Printf("[TUI] bridge full, dropping %T", msg)
	}
}

func (b *bridge) SetSearchValue(value string) { b.send(setSearchMsg{value: value}) }
func (b *bridge) ShowMessage(text string)     { b.send(showMessageMsg{text: text}) }
func (b *bridge) SetEnabled(enabled bool)     { b.send(triggerMsg{enabled: enabled}) }
func (b *bridge) Show(stream camera.Stream)   { b.send(frameViewMsg{stream: stream}) }
func (b *bridge) Hide()                       { b.send(frameViewMsg{}) }

// listen returns a command that waits for the next bridged message
func (b *bridge) listen() tea.Cmd {
	return func() tea.Msg {
		return bridgeMsg{msg: <-b.ch}
	}
}

// bridgeMsg wraps a bridged message so the app keeps listening after it
type bridgeMsg struct {
	msg tea.Msg
}
