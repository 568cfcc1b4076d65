// Package gocvcam opens camera streams through OpenCV (cgo).
package gocvcam

import (
	"fmt"
	"image"
	"sync"

	"github.com/lumipallolabs/shelfscan/internal/camera"
	"github.com/lumipallolabs/shelfscan/internal/logging"
	"gocv.io/x/gocv"
)

// Config maps facing modes to capture devices
type Config struct {
	EnvironmentDevice int // Rear camera, or the only camera on most desktops
	UserDevice        int // Front camera, -1 if none
	Width             int
	Height            int
}

// DefaultConfig returns a config for a single-camera machine
func DefaultConfig() Config {
	return Config{
		EnvironmentDevice: 0,
		UserDevice:        -1,
		Width:             1280,
		Height:            720,
	}
}

// deviceFor picks the device index for a facing mode. A missing preferred
// camera falls back to the environment device, like a browser does when a
// facingMode hint can't be satisfied.
func (c Config) deviceFor(f camera.Facing) int {
	if f == camera.FacingUser && c.UserDevice >= 0 {
		return c.UserDevice
	}
	return c.EnvironmentDevice
}

// Device opens camera streams through OpenCV
type Device struct {
	cfg Config
}

// NewDevice creates a camera device
func NewDevice(cfg Config) *Device {
	return &Device{cfg: cfg}
}

// Acquire opens a video stream satisfying the constraints
func (d *Device) Acquire(c camera.Constraints) (camera.Stream, error) {
	if c.Audio {
		return nil, camera.ErrAudioUnsupported
	}

	id := d.cfg.deviceFor(c.Facing)
	if id < 0 {
		return nil, camera.ErrDeviceNotFound
	}

	logging.Scan.Printf("[Camera] opening device %d (facing %s)", id, c.Facing)
	cam, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", id, err)
	}
	if !cam.IsOpened() {
		cam.Close()
		return nil, camera.ErrDeviceNotFound
	}

	if d.cfg.Width > 0 && d.cfg.Height > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(d.cfg.Width))
		cam.Set(gocv.VideoCaptureFrameHeight, float64(d.cfg.Height))
	}

	s := &videoStream{
		cam:   cam,
		frame: gocv.NewMat(),
	}
	s.track = &videoTrack{stream: s, label: fmt.Sprintf("camera %d", id)}
	return s, nil
}

// videoStream is a single-track stream backed by a gocv capture
type videoStream struct {
	mu      sync.Mutex
	cam     *gocv.VideoCapture
	frame   gocv.Mat // Reused between reads
	stopped bool
	track   *videoTrack
}

// Frame reads the next frame from the device
func (s *videoStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, camera.ErrStreamStopped
	}
	if ok := s.cam.Read(&s.frame); !ok || s.frame.Empty() {
		return nil, nil
	}
	return s.frame.ToImage()
}

func (s *videoStream) Tracks() []camera.Track {
	return []camera.Track{s.track}
}

func (s *videoStream) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	_ = s.cam.Close()
	_ = s.frame.Close()
	logging.Scan.Printf("[Camera] %s stopped", s.track.label)
}

func (s *videoStream) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

type videoTrack struct {
	stream *videoStream
	label  string
}

func (t *videoTrack) Kind() string { return "video" }
func (t *videoTrack) Active() bool { return t.stream.active() }
func (t *videoTrack) Stop()        { t.stream.stop() }
