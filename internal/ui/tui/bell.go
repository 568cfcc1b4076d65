package tui

import (
	"io"
	"sync"
)

// Bell plays the confirmation tone by ringing the terminal bell
type Bell struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
}

// NewBell creates a bell writing to out. A disabled bell stays silent.
func NewBell(out io.Writer, enabled bool) *Bell {
	return &Bell{out: out, enabled: enabled}
}

// Beep rings the bell once
func (b *Bell) Beep() {
	if b == nil || !b.enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.out.Write([]byte{'\a'})
}
