package scanner

import (
	"context"
	"image"
)

// Format identifies a barcode symbology
type Format string

const (
	FormatEAN13 Format = "ean_13"
	FormatEAN8  Format = "ean_8"
	FormatUPCA  Format = "upc_a"
)

// ISBNFormat is the symbology printed on the back of books
const ISBNFormat = FormatEAN13

// Barcode is a single decoded payload
type Barcode struct {
	Format   Format
	RawValue string
}

// FrameSource provides the current video frame for inspection
type FrameSource interface {
	Frame() (image.Image, error)
}

// Detector inspects a frame source and returns zero or more decoded barcodes
type Detector interface {
	Detect(ctx context.Context, src FrameSource) ([]Barcode, error)
}

// DetectorFactory builds a detector for the given format
type DetectorFactory func(format Format) (Detector, error)

// DetectionInitError is returned when the detector could not be constructed
type DetectionInitError struct {
	Format Format
	Err    error
}

func (e *DetectionInitError) Error() string { return e.Err.Error() }
func (e *DetectionInitError) Unwrap() error { return e.Err }

// DetectionRuntimeError is returned when a single detection call fails
type DetectionRuntimeError struct {
	Err error
}

func (e *DetectionRuntimeError) Error() string { return e.Err.Error() }
func (e *DetectionRuntimeError) Unwrap() error { return e.Err }
