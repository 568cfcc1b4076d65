package tui

// Capabilities records which device features were found at startup.
// Controls for a missing feature are left out of the UI entirely.
type Capabilities struct {
	Camera    bool // A capture device is present
	Detector  bool // Barcode detection can be constructed
	Clipboard bool // The terminal accepts clipboard writes
	Popover   bool // Transient messages can be shown on screen
	Audio     bool // The terminal bell may be used
}

// CanScan reports whether barcode scanning is possible at all
func (c Capabilities) CanScan() bool {
	return c.Camera && c.Detector
}
