package core

import "time"

// Phase is the current step of a scan session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRequesting
	PhaseScanning
	PhaseSucceeded
	PhaseFailed
	PhaseCancelled
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return ""
	case PhaseRequesting:
		return "Requesting camera"
	case PhaseScanning:
		return "Looking for a barcode"
	case PhaseSucceeded:
		return "ISBN found"
	case PhaseFailed:
		return "Scan failed"
	case PhaseCancelled:
		return "Scan cancelled"
	default:
		return ""
	}
}

// Terminal reports whether the phase ends a session
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed || p == PhaseCancelled
}

// SessionState is a read-only view of the current or last scan session
type SessionState struct {
	Phase     Phase
	StartTime time.Time
	ISBN      string // Result of the last successful scan
	Err       error  // Failure of the last scan
}

// IsActive returns true while a session holds or is requesting the camera
func (s SessionState) IsActive() bool {
	return s.Phase == PhaseRequesting || s.Phase == PhaseScanning
}

// Elapsed returns time since the session started
func (s SessionState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}
