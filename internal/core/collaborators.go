package core

import (
	"context"

	"github.com/lumipallolabs/shelfscan/internal/camera"
	"github.com/lumipallolabs/shelfscan/internal/scanner"
)

// Camera hands out camera streams. Acquire cannot be aborted once issued.
type Camera interface {
	Acquire(c camera.Constraints) (camera.Stream, error)
}

// Poller resolves with the ISBN read from a frame source
type Poller interface {
	Poll(ctx context.Context, src scanner.FrameSource) (string, error)
}

// Searcher updates the search field, the filtered list and the shareable location
type Searcher interface {
	SetSearchValue(value string)
}

// Messenger shows a transient message to the user
type Messenger interface {
	ShowMessage(text string)
}

// Trigger is the control that starts a scan
type Trigger interface {
	SetEnabled(enabled bool)
}

// FrameView displays the live stream while scanning
type FrameView interface {
	Show(stream camera.Stream)
	Hide()
}

// Beeper plays the audible confirmation after a successful read
type Beeper interface {
	Beep()
}

type nopBeeper struct{}

func (nopBeeper) Beep() {}
