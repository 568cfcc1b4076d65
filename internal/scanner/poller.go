package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/lumipallolabs/shelfscan/internal/logging"
)

// DefaultInterval is how often a frame is sampled for barcodes
const DefaultInterval = 500 * time.Millisecond

// Poller repeatedly samples a frame source until a barcode is decoded
type Poller struct {
	newDetector DetectorFactory
	format      Format
	interval    time.Duration

	// newTicker is replaced in tests to drive sampling by hand
	newTicker func(d time.Duration) (<-chan time.Time, func())
}

// NewPoller creates a poller for the given format and sampling interval
func NewPoller(factory DetectorFactory, format Format, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		newDetector: factory,
		format:      format,
		interval:    interval,
		newTicker:   newTimeTicker,
	}
}

func newTimeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// sampleResult is the outcome of one detection call
type sampleResult struct {
	codes []Barcode
	err   error
}

// Poll samples src every interval and returns the ISBN token of the first
// decoded barcode. Sampling stops for good as soon as Poll settles.
func (p *Poller) Poll(ctx context.Context, src FrameSource) (string, error) {
	detector, err := p.newDetector(p.format)
	if err != nil {
		logging.Scan.Printf("[Poller] detector init failed: %v", err)
		return "", &DetectionInitError{Format: p.format, Err: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	ticks, stopTicker := p.newTicker(p.interval)

	var settled atomic.Bool
	settle := sync.OnceFunc(func() {
		settled.Store(true)
		stopTicker()
		cancel()
	})
	defer settle()

	results := make(chan sampleResult)
	tick := 0
	inflight := false // At most one detection runs at a time

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-ticks:
			if inflight {
				continue
			}
			inflight = true
			tick++
			go p.sample(ctx, detector, src, &settled, results)

		case res := <-results:
			inflight = false
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if res.err != nil {
				settle()
				logging.Scan.Printf("[Poller] detection failed after %d ticks: %v", tick, res.err)
				return "", &DetectionRuntimeError{Err: res.err}
			}
			if len(res.codes) == 0 {
				continue
			}
			isbn := ExtractISBN(res.codes[0].RawValue)
			if isbn == "" {
				continue
			}
			settle()
			logging.Scan.Printf("[Poller] resolved %q after %d ticks", isbn, tick)
			return isbn, nil
		}
	}
}

// sample runs one detection call and hands the result to the poll loop
// unless the loop has already settled.
func (p *Poller) sample(ctx context.Context, detector Detector, src FrameSource, settled *atomic.Bool, out chan<- sampleResult) {
	if settled.Load() {
		return
	}
	res := detect(ctx, detector, src)
	if settled.Load() {
		logging.Scan.Printf("[Poller] discarding late sample")
		return
	}
	select {
	case out <- res:
	case <-ctx.Done():
	}
}

// detect runs the detector, turning a panic into a detection error
func detect(ctx context.Context, detector Detector, src FrameSource) (res sampleResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Scan.Printf("[Poller] detector panicked: %v", r)
			res = sampleResult{err: fmt.Errorf("%v", r)}
		}
	}()
	codes, err := detector.Detect(ctx, src)
	return sampleResult{codes: codes, err: err}
}

// ExtractISBN returns the part of a raw payload before the first whitespace.
// Book barcodes often carry a price add-on after the code itself.
func ExtractISBN(raw string) string {
	if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
		return raw[:i]
	}
	return raw
}
