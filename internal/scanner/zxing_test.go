package scanner

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

type staticFrame struct {
	img image.Image
	err error
}

func (s staticFrame) Frame() (image.Image, error) { return s.img, s.err }

func TestZXingDetectorDecodesEAN13(t *testing.T) {
	writer := oned.NewEAN13Writer()
	matrix, err := writer.Encode("9780143127741", gozxing.BarcodeFormat_EAN_13, 400, 120, nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	det, err := NewZXingDetector(FormatEAN13)
	if err != nil {
		t.Fatalf("NewZXingDetector failed: %v", err)
	}

	codes, err := det.Detect(context.Background(), staticFrame{img: matrix})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(codes) != 1 {
		t.Fatalf("expected 1 barcode, got %d", len(codes))
	}
	if got := ExtractISBN(codes[0].RawValue); got != "9780143127741" {
		t.Errorf("expected 9780143127741, got %q", got)
	}
}

func TestZXingDetectorBlankFrame(t *testing.T) {
	det, _ := NewZXingDetector(FormatEAN13)

	blank := image.NewGray(image.Rect(0, 0, 200, 100))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	codes, err := det.Detect(context.Background(), staticFrame{img: blank})
	if err != nil {
		t.Fatalf("blank frame should not be an error: %v", err)
	}
	if len(codes) != 0 {
		t.Errorf("expected no barcodes, got %v", codes)
	}

	codes, err = det.Detect(context.Background(), staticFrame{})
	if err != nil || len(codes) != 0 {
		t.Errorf("missing frame should be a no-op, got %v %v", codes, err)
	}
}

func TestZXingDetectorFrameError(t *testing.T) {
	det, _ := NewZXingDetector(FormatEAN13)
	_, err := det.Detect(context.Background(), staticFrame{err: errors.New("device closed")})
	if err == nil {
		t.Fatal("expected frame error to propagate")
	}
}

func TestNewZXingDetectorUnsupported(t *testing.T) {
	if _, err := NewZXingDetector(Format("qr_code")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestZXingDetectorConcurrentDetect(t *testing.T) {
	matrix, err := oned.NewEAN13Writer().Encode("9780143127741", gozxing.BarcodeFormat_EAN_13, 400, 120, nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	det, _ := NewZXingDetector(FormatEAN13)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes, err := det.Detect(context.Background(), staticFrame{img: matrix})
			if err == nil && (len(codes) != 1 || codes[0].RawValue != "9780143127741") {
				err = errors.New("wrong decode result")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Detect: %v", err)
		}
	}
}
