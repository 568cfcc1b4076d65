package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// ZXingDetector decodes one-dimensional barcodes with gozxing. It is safe
// for concurrent use; decodes are serialized since gozxing readers keep
// per-decode state.
type ZXingDetector struct {
	format Format
	mu     sync.Mutex
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewZXingDetector creates a detector for a single barcode format
func NewZXingDetector(format Format) (Detector, error) {
	var reader gozxing.Reader
	switch format {
	case FormatEAN13:
		reader = oned.NewEAN13Reader()
	case FormatEAN8:
		reader = oned.NewEAN8Reader()
	case FormatUPCA:
		reader = oned.NewUPCAReader()
	default:
		return nil, fmt.Errorf("unsupported barcode format %q", format)
	}

	return &ZXingDetector{
		format: format,
		reader: reader,
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}, nil
}

// Detect decodes the current frame. A frame without a readable barcode
// yields no results and no error.
func (d *ZXingDetector) Detect(ctx context.Context, src FrameSource) ([]Barcode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := src.Frame()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	if img == nil {
		return nil, nil
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize frame: %w", err)
	}

	d.mu.Lock()
	result, err := d.reader.Decode(bmp, d.hints)
	d.mu.Unlock()
	if err != nil {
		return nil, nil
	}

	raw := result.GetText()
	if ext, ok := result.GetResultMetadata()[gozxing.ResultMetadataType_UPC_EAN_EXTENSION]; ok {
		raw = fmt.Sprintf("%s %v", raw, ext)
	}

	return []Barcode{{Format: d.format, RawValue: raw}}, nil
}
