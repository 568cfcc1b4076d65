package tui

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/shelfscan/internal/camera"
	"github.com/lumipallolabs/shelfscan/internal/core"
	"github.com/lumipallolabs/shelfscan/internal/location"
	"github.com/lumipallolabs/shelfscan/internal/model"
	"github.com/lumipallolabs/shelfscan/internal/scanner"
)

type testTrack struct {
	mu      sync.Mutex
	stopped bool
}

func (t *testTrack) Kind() string { return "video" }
func (t *testTrack) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}
func (t *testTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

type testStream struct {
	track *testTrack
}

func (s *testStream) Frame() (image.Image, error) { return image.NewGray(image.Rect(0, 0, 4, 4)), nil }
func (s *testStream) Tracks() []camera.Track      { return []camera.Track{s.track} }

type testCamera struct {
	stream *testStream
	err    error
}

func (c *testCamera) Acquire(camera.Constraints) (camera.Stream, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.stream, nil
}

type testPoller struct {
	isbn string
	err  error
}

func (p testPoller) Poll(context.Context, scanner.FrameSource) (string, error) {
	return p.isbn, p.err
}

type countingBeeper struct {
	mu    sync.Mutex
	beeps int
}

func (b *countingBeeper) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beeps++
}

type recordingCopier struct {
	copied []string
}

func (c *recordingCopier) Copy(text string) error {
	c.copied = append(c.copied, text)
	return nil
}

var allCaps = Capabilities{Camera: true, Detector: true, Clipboard: true, Popover: true, Audio: true}

func testLibrary() *model.Library {
	return &model.Library{Books: []model.Book{
		{ISBN: "9780316769488", Title: "The Catcher in the Rye", Authors: "J. D. Salinger", Year: "1951"},
		{ISBN: "9780441172719", Title: "Dune", Authors: "Frank Herbert", Year: "1965"},
		{ISBN: "9780143127741", Title: "The Circle", Authors: "Dave Eggers", Year: "2013"},
	}}
}

func newTestApp(t *testing.T, opts Options) App {
	t.Helper()
	if opts.Library == nil {
		opts.Library = testLibrary()
	}
	if opts.Location == nil {
		opts.Location = location.NewManager(filepath.Join(t.TempDir(), "location.json"))
	}
	app := NewApp(opts)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m.(App)
}

// drain applies every message the controller has bridged so far
func drain(app App) App {
	for {
		select {
		case msg := <-app.bridge.ch:
			m, _ := app.Update(bridgeMsg{msg: msg})
			app = m.(App)
		default:
			return app
		}
	}
}

func press(app App, keys string) (App, tea.Cmd) {
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return m.(App), cmd
}

func TestScanFillsSearch(t *testing.T) {
	stream := &testStream{track: &testTrack{}}
	beeper := &countingBeeper{}
	app := newTestApp(t, Options{
		Camera: &testCamera{stream: stream},
		Poller: testPoller{isbn: "9780316769488"},
		Beeper: beeper,
		Caps:   allCaps,
	})

	if err := app.Controller().StartScan(context.Background()); err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	app = drain(app)

	if got := app.search.Value(); got != "9780316769488" {
		t.Errorf("search value = %q, want 9780316769488", got)
	}
	if app.list.Len() != 1 {
		t.Errorf("list has %d books, want 1", app.list.Len())
	}
	if !strings.Contains(app.location.String(), "search=9780316769488") {
		t.Errorf("location = %q, want search=9780316769488", app.location.String())
	}
	if beeper.beeps != 1 {
		t.Errorf("beeps = %d, want 1", beeper.beeps)
	}
	if stream.track.Active() {
		t.Error("track still active after scan")
	}
	if !app.triggerEnabled {
		t.Error("trigger disabled after scan")
	}
	if app.preview.IsVisible() {
		t.Error("preview still visible after scan")
	}
	if app.message != "" {
		t.Errorf("unexpected message %q", app.message)
	}
}

func TestScanAccessDeniedShowsMessage(t *testing.T) {
	app := newTestApp(t, Options{
		Camera: &testCamera{err: errors.New("Permission denied")},
		Poller: testPoller{isbn: "9780316769488"},
		Caps:   allCaps,
	})

	_ = app.Controller().StartScan(context.Background())
	app = drain(app)

	want := "Failed to get access to the camera: Permission denied"
	if app.message != want {
		t.Errorf("message = %q, want %q", app.message, want)
	}
	if !app.triggerEnabled {
		t.Error("trigger disabled after failed scan")
	}
	if app.preview.IsVisible() {
		t.Error("preview shown without a stream")
	}
	if _, ok := app.location.Search(); ok {
		t.Error("location changed by failed scan")
	}
	if !strings.Contains(app.View(), want) {
		t.Error("message not rendered")
	}
}

func TestMessageWithoutPopoverIsOnlyLogged(t *testing.T) {
	caps := allCaps
	caps.Popover = false
	app := newTestApp(t, Options{
		Camera: &testCamera{err: errors.New("Permission denied")},
		Poller: testPoller{},
		Caps:   caps,
	})

	_ = app.Controller().StartScan(context.Background())
	app = drain(app)

	if app.message != "" {
		t.Errorf("message = %q, want none", app.message)
	}
}

func TestMessageExpires(t *testing.T) {
	app := newTestApp(t, Options{Caps: allCaps})

	app.showMessage("first")
	app.showMessage("second")

	// A stale expiry keeps the newer message
	m, _ := app.Update(messageExpireMsg{version: 1})
	app = m.(App)
	if app.message != "second" {
		t.Fatalf("message = %q, want second", app.message)
	}

	m, _ = app.Update(messageExpireMsg{version: 2})
	app = m.(App)
	if app.message != "" {
		t.Errorf("message = %q after expiry", app.message)
	}
}

func TestInitialSearchFromLocation(t *testing.T) {
	loc := location.NewManager(filepath.Join(t.TempDir(), "location.json"))
	if err := loc.Set("shelfscan://books/?search=dune"); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, Options{Location: loc, Caps: allCaps})

	if got := app.search.Value(); got != "dune" {
		t.Errorf("search value = %q, want dune", got)
	}
	if app.list.Len() != 1 {
		t.Errorf("list has %d books, want 1", app.list.Len())
	}
}

func TestTypingFiltersAndEnterCommits(t *testing.T) {
	app := newTestApp(t, Options{Caps: allCaps})

	app, _ = press(app, "/")
	if !app.search.Focused() {
		t.Fatal("search not focused")
	}
	app, _ = press(app, "circle")

	if app.list.Len() != 1 {
		t.Errorf("list has %d books, want 1", app.list.Len())
	}
	if _, ok := app.location.Search(); ok {
		t.Error("location written before Enter")
	}

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = m.(App)

	if app.search.Focused() {
		t.Error("search still focused after Enter")
	}
	if v, _ := app.location.Search(); v != "circle" {
		t.Errorf("location search = %q, want circle", v)
	}
}

func TestScanKeyNeedsCapabilities(t *testing.T) {
	app := newTestApp(t, Options{
		Camera: &testCamera{stream: &testStream{track: &testTrack{}}},
		Poller: testPoller{isbn: "9780316769488"},
		Caps:   Capabilities{Popover: true},
	})

	app, cmd := press(app, "s")
	if cmd != nil {
		t.Error("scan started without a camera")
	}
	if !app.triggerEnabled {
		t.Error("trigger disabled without a scan")
	}
	if strings.Contains(app.View(), "s Scan") {
		t.Error("scan button rendered without a camera")
	}
}

func TestScanKeyIgnoredWhileTriggerDisabled(t *testing.T) {
	app := newTestApp(t, Options{
		Camera: &testCamera{stream: &testStream{track: &testTrack{}}},
		Poller: testPoller{isbn: "9780316769488"},
		Caps:   allCaps,
	})

	app, cmd := press(app, "s")
	if cmd == nil {
		t.Fatal("scan not started")
	}
	if app.triggerEnabled {
		t.Error("trigger still enabled after starting a scan")
	}

	_, cmd = press(app, "s")
	if cmd != nil {
		t.Error("second scan started while the first is running")
	}
}

func TestCopyMarksButton(t *testing.T) {
	copier := &recordingCopier{}
	loc := location.NewManager(filepath.Join(t.TempDir(), "location.json"))
	if err := loc.Set("shelfscan://books/?search=dune"); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, Options{Location: loc, Clipboard: copier, Caps: allCaps})

	app, cmd := press(app, "c")
	if cmd == nil {
		t.Fatal("expected restore command")
	}
	if len(copier.copied) != 1 || copier.copied[0] != "dune" {
		t.Errorf("copied = %v, want [dune]", copier.copied)
	}
	if !strings.Contains(app.View(), "✅") {
		t.Error("copy button not marked done")
	}

	// Pressing again while marked does nothing
	app, _ = press(app, "c")
	if len(copier.copied) != 1 {
		t.Errorf("copied %d times, want 1", len(copier.copied))
	}

	m, _ := app.Update(copyRestoreMsg{})
	app = m.(App)
	if !app.copyEnabled {
		t.Error("copy button not restored")
	}
}

func TestLibraryReload(t *testing.T) {
	app := newTestApp(t, Options{Caps: allCaps})

	lib := &model.Library{Books: []model.Book{{ISBN: "9780000000002", Title: "New"}}}
	m, _ := app.Update(libraryLoadedMsg{lib: lib})
	app = m.(App)
	if app.list.Len() != 1 {
		t.Errorf("list has %d books after reload, want 1", app.list.Len())
	}

	m, _ = app.Update(libraryLoadedMsg{err: errors.New("bad csv")})
	app = m.(App)
	if app.list.Len() != 1 {
		t.Error("failed reload replaced the library")
	}
	if !strings.Contains(app.message, "bad csv") {
		t.Errorf("message = %q, want reload error", app.message)
	}
}

func TestSpinnerStartsWhenSessionBegins(t *testing.T) {
	app := newTestApp(t, Options{Caps: allCaps})

	// A tick that arrives before the session is busy ends its loop
	m, cmd := app.Update(spinnerTickMsg{})
	app = m.(App)
	if cmd != nil {
		t.Error("idle spinner tick kept ticking")
	}

	m, cmd = app.Update(controllerEventMsg{event: core.PhaseChangedEvent{Phase: core.PhaseRequesting}})
	app = m.(App)
	if cmd == nil {
		t.Fatal("expected commands after Requesting")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("expected event listener and spinner tick, got %T", cmd())
	}

	m, cmd = app.Update(spinnerTickMsg{})
	app = m.(App)
	if cmd == nil {
		t.Error("spinner stopped while requesting the camera")
	}

	m, _ = app.Update(controllerEventMsg{event: core.PhaseChangedEvent{Phase: core.PhaseIdle}})
	app = m.(App)
	if _, cmd = app.Update(spinnerTickMsg{}); cmd != nil {
		t.Error("spinner kept ticking after the session ended")
	}
}
