package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lumipallolabs/shelfscan/internal/camera"
	"github.com/lumipallolabs/shelfscan/internal/logging"
)

// Options wires the controller to its collaborators
type Options struct {
	Camera    Camera
	Poller    Poller
	Searcher  Searcher
	Messenger Messenger
	Trigger   Trigger
	FrameView FrameView
	Beeper    Beeper // Optional; nil means no audio
}

// Controller runs scan sessions: acquire a camera, poll for a barcode,
// report the result and always release the camera afterwards.
type Controller struct {
	mu sync.Mutex

	// State
	state  SessionState
	active bool
	cancel context.CancelFunc
	done   chan struct{} // Closed once the active session has cleaned up

	// Collaborators
	camera   Camera
	poller   Poller
	search   Searcher
	messages Messenger
	trigger  Trigger
	view     FrameView
	beeper   Beeper

	eventCh chan Event
}

// NewController creates a scan controller
func NewController(opts Options) *Controller {
	beeper := opts.Beeper
	if beeper == nil {
		beeper = nopBeeper{}
	}
	return &Controller{
		camera:   opts.Camera,
		poller:   opts.Poller,
		search:   opts.Searcher,
		messages: opts.Messenger,
		trigger:  opts.Trigger,
		view:     opts.FrameView,
		beeper:   beeper,
		eventCh:  make(chan Event, 100),
	}
}

// State returns a snapshot of the current session state
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events returns the channel that receives controller events
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// StartScan runs one scan session to completion. It blocks until the
// session has ended and its camera stream has been released.
//
// The trigger control is disabled for the whole session, so callers
// normally cannot start a second scan. If they do anyway, StartScan
// returns ErrScanInProgress without touching the camera.
func (c *Controller) StartScan(ctx context.Context) (err error) {
	ctx, ok := c.begin(ctx)
	if !ok {
		logging.Debug.Printf("[Controller] scan requested while another is active")
		return ErrScanInProgress
	}

	var (
		stream camera.Stream
		isbn   string
		phase  = PhaseFailed
	)
	defer func() {
		c.finish(stream, phase, isbn, err)
	}()

	logging.Debug.Printf("[Controller] requesting camera")
	stream, err = c.camera.Acquire(camera.Constraints{
		Facing: camera.FacingEnvironment,
		Audio:  false,
	})
	if err != nil {
		stream = nil
		err = &CameraAccessError{Err: err}
		c.messages.ShowMessage(fmt.Sprintf("Failed to get access to the camera: %v", err))
		return err
	}

	// The request could not be aborted; honour a cancel that came in meanwhile
	if ctx.Err() != nil {
		phase = PhaseCancelled
		return ctx.Err()
	}

	c.view.Show(stream)
	c.setPhase(PhaseScanning)

	isbn, err = c.poll(ctx, stream)
	switch {
	case err == nil:
		phase = PhaseSucceeded
		c.beeper.Beep()
		c.search.SetSearchValue(isbn)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		phase = PhaseCancelled
	default:
		c.messages.ShowMessage(fmt.Sprintf("Failed to read ISBN: %v", err))
	}
	return err
}

// poll runs the poller, turning a panic into an ordinary read failure
func (c *Controller) poll(ctx context.Context, stream camera.Stream) (isbn string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debug.Printf("[Controller] poller panicked: %v", r)
			err = fmt.Errorf("%v", r)
		}
	}()
	return c.poller.Poll(ctx, stream)
}

// begin claims the single session slot and disables the trigger
func (c *Controller) begin(ctx context.Context) (context.Context, bool) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return nil, false
	}

	ctx, cancel := context.WithCancel(ctx)
	c.active = true
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = SessionState{
		Phase:     PhaseRequesting,
		StartTime: time.Now(),
	}
	c.mu.Unlock()

	c.trigger.SetEnabled(false)
	c.emit(PhaseChangedEvent{Phase: PhaseRequesting})
	return ctx, true
}

// finish releases everything the session holds and returns to idle.
// It runs on every path out of StartScan.
func (c *Controller) finish(stream camera.Stream, phase Phase, isbn string, err error) {
	camera.StopAll(stream)
	c.view.Hide()
	c.trigger.SetEnabled(true)

	c.mu.Lock()
	c.state.Phase = phase
	switch phase {
	case PhaseSucceeded:
		c.state.ISBN = isbn
		c.state.Err = nil
	case PhaseFailed:
		c.state.Err = err
	}
	elapsed := c.state.Elapsed()
	c.mu.Unlock()

	logging.Debug.Printf("[Controller] session ended: %s after %s (err: %v)", phase, elapsed, err)
	c.emit(PhaseChangedEvent{Phase: phase})
	c.emit(ScanCompletedEvent{
		ISBN:      isbn,
		Err:       err,
		Cancelled: phase == PhaseCancelled,
	})

	c.mu.Lock()
	c.state.Phase = PhaseIdle
	c.active = false
	c.cancel()
	close(c.done)
	c.mu.Unlock()

	c.emit(PhaseChangedEvent{Phase: PhaseIdle})
}

// setPhase records a non-terminal phase change
func (c *Controller) setPhase(phase Phase) {
	c.mu.Lock()
	c.state.Phase = phase
	c.mu.Unlock()
	c.emit(PhaseChangedEvent{Phase: phase})
}

// CancelScan ends the active session, if any, without waiting for cleanup
func (c *Controller) CancelScan() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		c.cancel()
	}
}

// Dispose cancels any active session and waits until its camera stream
// has been released. A pending camera request is waited out, since it
// cannot be aborted.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// emit sends an event without blocking
func (c *Controller) emit(event Event) {
	select {
	case c.eventCh <- event:
	default:
		// Channel full, drop event
	}
}
