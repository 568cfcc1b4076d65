// Package clipboard copies text to the system clipboard through the
// terminal, using OSC 52 escape sequences.
package clipboard

import (
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
)

// Clipboard writes copy requests to a terminal
type Clipboard struct {
	out  io.Writer
	term string
	tmux bool
}

// New creates a clipboard writing to out, wrapping sequences for
// tmux or screen when running inside them.
func New(out io.Writer) *Clipboard {
	return &Clipboard{
		out:  out,
		term: os.Getenv("TERM"),
		tmux: os.Getenv("TMUX") != "",
	}
}

// Copy places text on the clipboard
func (c *Clipboard) Copy(text string) error {
	_, err := c.sequence(text).WriteTo(c.out)
	return err
}

// sequence builds the escape sequence for the current terminal
func (c *Clipboard) sequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	switch {
	case c.tmux:
		seq = seq.Tmux()
	case strings.HasPrefix(c.term, "screen"):
		seq = seq.Screen()
	}
	return seq
}

// Supported reports whether f is a terminal that can receive OSC 52
func Supported(f *os.File) bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
