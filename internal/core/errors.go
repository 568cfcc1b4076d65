package core

import "errors"

// ErrScanInProgress is returned when a scan is started while another is active
var ErrScanInProgress = errors.New("a scan is already in progress")

// CameraAccessError reports that no camera stream could be obtained:
// permission denied, no camera present, or unsatisfiable constraints.
type CameraAccessError struct {
	Err error
}

func (e *CameraAccessError) Error() string { return e.Err.Error() }
func (e *CameraAccessError) Unwrap() error { return e.Err }
