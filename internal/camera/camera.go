// Package camera acquires live video streams for barcode scanning.
package camera

import (
	"errors"
	"image"
)

// Facing selects which physical camera a stream should come from
type Facing int

const (
	FacingAny Facing = iota
	FacingEnvironment
	FacingUser
)

// String returns the facing mode name
func (f Facing) String() string {
	switch f {
	case FacingEnvironment:
		return "environment"
	case FacingUser:
		return "user"
	default:
		return "any"
	}
}

// Constraints describe the stream a caller wants
type Constraints struct {
	Facing Facing
	Audio  bool
}

var (
	ErrAudioUnsupported = errors.New("audio capture is not supported")
	ErrDeviceNotFound   = errors.New("requested device not found")
	ErrStreamStopped    = errors.New("stream has been stopped")
)

// Track is one media track of a stream
type Track interface {
	Kind() string
	Active() bool
	Stop()
}

// Stream is a live camera stream. Frame returns nil without error while
// the device has not produced a frame yet.
type Stream interface {
	Frame() (image.Image, error)
	Tracks() []Track
}

// StopAll stops every track of the stream
func StopAll(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}

// Active reports whether any track of the stream is still running
func Active(s Stream) bool {
	if s == nil {
		return false
	}
	for _, t := range s.Tracks() {
		if t.Active() {
			return true
		}
	}
	return false
}
