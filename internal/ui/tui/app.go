package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/shelfscan/internal/cache"
	"github.com/lumipallolabs/shelfscan/internal/core"
	"github.com/lumipallolabs/shelfscan/internal/location"
	"github.com/lumipallolabs/shelfscan/internal/logging"
	"github.com/lumipallolabs/shelfscan/internal/model"
	"github.com/lumipallolabs/shelfscan/internal/watcher"
)

// Message types for Bubble Tea
type (
	scanFinishedMsg    struct{ err error }
	controllerEventMsg struct{ event core.Event }
	watcherEventMsg    struct{ event watcher.Event }
	libraryLoadedMsg   struct {
		lib *model.Library
		err error
	}
	snapshotMsg struct {
		changes cache.Changes
		err     error
	}
	messageExpireMsg struct{ version int }
	copyRestoreMsg   struct{}
	spinnerTickMsg   struct{}
)

// Spinner frames - modern braille dots spinner
var spinnerFrames = []string{
	"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏",
}

// Timing constants
const (
	spinnerTickInterval = 80 * time.Millisecond
	messageTimeout      = 4 * time.Second
	copyRestoreDelay    = 2 * time.Second
)

// Copier places text on the clipboard
type Copier interface {
	Copy(text string) error
}

// Options configures the application
type Options struct {
	Version   string
	Library   *model.Library
	BooksPath string
	Location  *location.Manager
	Camera    core.Camera
	Poller    core.Poller
	Beeper    core.Beeper
	Clipboard Copier
	Watcher   *watcher.Watcher // Optional; reloads the library on change
	Snapshots *cache.Cache     // Optional; reports changes since the last run
	Caps      Capabilities
}

// App is the main TUI application model
type App struct {
	// Core controller (scan sessions)
	ctrl   *core.Controller
	bridge *bridge

	// Collaborators
	library   *model.Library
	booksPath string
	location  *location.Manager
	clipboard Copier
	watcher   *watcher.Watcher
	snapshots *cache.Cache
	caps      Capabilities

	// UI Components
	header  Header
	search  textinput.Model
	list    BookList
	preview FramePreview
	help    HelpOverlay
	keys    KeyMap
	version string

	// UI state
	triggerEnabled bool
	copyEnabled    bool
	phase          core.Phase
	message        string
	messageVersion int // for expiring stale messages

	// Dimensions
	width  int
	height int
}

// NewApp creates a new application instance
func NewApp(opts Options) App {
	b := newBridge()
	ctrl := core.NewController(core.Options{
		Camera:    opts.Camera,
		Poller:    opts.Poller,
		Searcher:  b,
		Messenger: b,
		Trigger:   b,
		FrameView: b,
		Beeper:    opts.Beeper,
	})

	lib := opts.Library
	if lib == nil {
		lib = &model.Library{}
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search by ISBN, title, author or year"
	search.CharLimit = 256

	app := App{
		ctrl:           ctrl,
		bridge:         b,
		library:        lib,
		booksPath:      opts.BooksPath,
		location:       opts.Location,
		clipboard:      opts.Clipboard,
		watcher:        opts.Watcher,
		snapshots:      opts.Snapshots,
		caps:           opts.Caps,
		header:         NewHeader(opts.Version, opts.Caps.CanScan()),
		search:         search,
		list:           NewBookList(),
		preview:        NewFramePreview(),
		help:           NewHelpOverlay(opts.Version, opts.Caps),
		keys:           DefaultKeyMap().ForCapabilities(opts.Caps),
		version:        opts.Version,
		triggerEnabled: true,
		copyEnabled:    true,
	}

	// Restore the search from the shared location
	if value, ok := app.location.Search(); ok {
		app.setSearchValue(value)
	} else {
		app.applyFilter()
	}
	app.header.SetLocation(app.location.String())

	return app
}

// Controller returns the scan controller
func (a App) Controller() *core.Controller {
	return a.ctrl
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.bridge.listen(),
		a.listenForControllerEvents(),
		a.listenForWatcherEvents(),
		a.compareWithSnapshot(),
	)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case bridgeMsg:
		cmd := a.handleBridged(msg.msg)
		return a, tea.Batch(cmd, a.bridge.listen())

	case controllerEventMsg:
		return a.handleControllerEvent(msg.event)

	case scanFinishedMsg:
		if msg.err != nil && !errors.Is(msg.err, core.ErrScanInProgress) {
			logging.Debug.Printf("[TUI] scan ended with error: %v", msg.err)
		}
		return a, nil

	case watcherEventMsg:
		logging.Debug.Printf("[TUI] book list changed: %s", msg.event.Path)
		return a, tea.Batch(a.reloadLibrary(), a.listenForWatcherEvents())

	case libraryLoadedMsg:
		if msg.err != nil {
			return a, a.showMessage(fmt.Sprintf("Failed to reload books: %v", msg.err))
		}
		changes := cache.Diff(a.library, msg.lib)
		a.library = msg.lib
		a.applyFilter()
		if changes.Empty() {
			return a, nil
		}
		return a, tea.Batch(
			a.showMessage("Book list updated: "+changes.Summary()),
			a.saveSnapshot(),
		)

	case snapshotMsg:
		if msg.err != nil {
			logging.Debug.Printf("[TUI] snapshot: %v", msg.err)
			return a, nil
		}
		if msg.changes.Empty() {
			return a, nil
		}
		return a, a.showMessage("Since last run: " + msg.changes.Summary())

	case messageExpireMsg:
		if msg.version == a.messageVersion {
			a.message = ""
			a.updateLayout()
		}
		return a, nil

	case copyRestoreMsg:
		a.copyEnabled = true
		return a, nil

	case spinnerTickMsg:
		if a.scanBusy() {
			return a, a.spinnerTick()
		}
		return a, nil

	case previewTickMsg, previewFrameMsg:
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return a, cmd
	}

	if a.search.Focused() {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleBridged applies a collaborator call made by the controller
func (a *App) handleBridged(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case setSearchMsg:
		a.setSearchValue(msg.value)
	case showMessageMsg:
		return a.showMessage(msg.text)
	case triggerMsg:
		a.triggerEnabled = msg.enabled
	case frameViewMsg:
		if msg.stream == nil {
			a.preview.Hide()
			a.updateLayout()
			return nil
		}
		cmd := a.preview.Show(msg.stream)
		a.updateLayout()
		return cmd
	}
	return nil
}

// handleControllerEvent tracks the scan phase for the header
func (a App) handleControllerEvent(event core.Event) (tea.Model, tea.Cmd) {
	listen := a.listenForControllerEvents()
	switch e := event.(type) {
	case core.PhaseChangedEvent:
		logging.Debug.Printf("[TUI] scan phase: %s", e.Phase)
		wasBusy := a.scanBusy()
		a.phase = e.Phase
		a.header.SetPhase(e.Phase)
		// The spinner loop runs while a session is busy; start it on entry
		if !wasBusy && a.scanBusy() {
			return a, tea.Batch(listen, a.spinnerTick())
		}
	case core.ScanCompletedEvent:
		if e.ISBN != "" {
			a.header.SetLastISBN(e.ISBN)
		}
	}
	return a, listen
}

// listenForControllerEvents creates a command that waits for controller events
func (a App) listenForControllerEvents() tea.Cmd {
	eventCh := a.ctrl.Events()
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return controllerEventMsg{event: event}
	}
}

// listenForWatcherEvents creates a command that waits for book file changes
func (a App) listenForWatcherEvents() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	eventCh := a.watcher.Events()
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil // Channel closed
		}
		return watcherEventMsg{event: event}
	}
}

// reloadLibrary reads the book list again in the background
func (a App) reloadLibrary() tea.Cmd {
	path := a.booksPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lib, err := model.Load(context.Background(), path)
		return libraryLoadedMsg{lib: lib, err: err}
	}
}

// compareWithSnapshot diffs the library against the previous run's
// snapshot and replaces the snapshot with the current library
func (a App) compareWithSnapshot() tea.Cmd {
	if a.snapshots == nil {
		return nil
	}
	snapshots, lib := a.snapshots, a.library
	return func() tea.Msg {
		var changes cache.Changes
		previous, err := snapshots.LoadLatest()
		switch {
		case err == nil:
			changes = cache.Diff(previous, lib)
		case !errors.Is(err, cache.ErrNoSnapshot):
			return snapshotMsg{err: err}
		}
		if err := snapshots.Save(lib); err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{changes: changes}
	}
}

// saveSnapshot stores the current library in the background
func (a App) saveSnapshot() tea.Cmd {
	if a.snapshots == nil {
		return nil
	}
	snapshots, lib := a.snapshots, a.library
	return func() tea.Msg {
		if err := snapshots.Save(lib); err != nil {
			return snapshotMsg{err: err}
		}
		return nil
	}
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay - any key closes it
	if a.help.IsVisible() {
		a.help.SetVisible(false)
		return a, nil
	}

	if msg.String() == "ctrl+c" {
		a.shutdown()
		return a, tea.Quit
	}

	if a.search.Focused() {
		return a.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.shutdown()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Search):
		return a, a.search.Focus()

	case key.Matches(msg, a.keys.Back):
		if a.scanBusy() {
			a.ctrl.CancelScan()
		}
		return a, nil

	case key.Matches(msg, a.keys.Scan):
		return a.startScan()

	case key.Matches(msg, a.keys.Copy):
		return a.copySearch()

	case key.Matches(msg, a.keys.Up):
		a.list.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.list.MoveDown()
	case key.Matches(msg, a.keys.PageUp):
		a.list.PageUp()
	case key.Matches(msg, a.keys.PageDown):
		a.list.PageDown()
	case key.Matches(msg, a.keys.Top):
		a.list.GoToTop()
	case key.Matches(msg, a.keys.Bottom):
		a.list.GoToBottom()
	}
	return a, nil
}

// handleSearchKey edits the search field. Typing filters the list;
// Enter also writes the value into the shareable location.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Submit):
		a.search.Blur()
		a.setSearchValue(a.search.Value())
		return a, nil
	case key.Matches(msg, a.keys.Back):
		a.search.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.applyFilter()
	return a, cmd
}

// startScan runs a scan session in the background
func (a App) startScan() (tea.Model, tea.Cmd) {
	if !a.caps.CanScan() || !a.triggerEnabled {
		return a, nil
	}
	// The controller disables the trigger too; do it now so a fast
	// second key press cannot queue another session.
	a.triggerEnabled = false

	ctrl := a.ctrl
	return a, func() tea.Msg {
		return scanFinishedMsg{err: ctrl.StartScan(context.Background())}
	}
}

// copySearch copies the search value and briefly marks the copy button done
func (a App) copySearch() (tea.Model, tea.Cmd) {
	if !a.caps.Clipboard || !a.copyEnabled || a.clipboard == nil {
		return a, nil
	}
	a.copyEnabled = false

	if err := a.clipboard.Copy(a.search.Value()); err != nil {
		logging.Debug.Printf("[TUI] copy failed: %v", err)
	}
	return a, tea.Tick(copyRestoreDelay, func(time.Time) tea.Msg {
		return copyRestoreMsg{}
	})
}

// setSearchValue updates the field, the filtered list and the shared location
func (a *App) setSearchValue(value string) {
	a.search.SetValue(value)
	a.applyFilter()
	a.location.SetSearch(value)
	a.header.SetLocation(a.location.String())
}

// applyFilter filters the library by the current search field
func (a *App) applyFilter() {
	results := a.library.Search(a.search.Value())
	a.list.SetBooks(results)
	a.header.SetCounts(len(results), len(a.library.Books))
}

// showMessage shows a transient message. Without popover support the
// message is only logged.
func (a *App) showMessage(text string) tea.Cmd {
	logging.Debug.Printf("[TUI] warning: %s", text)
	if !a.caps.Popover {
		return nil
	}

	a.message = text
	a.messageVersion++
	a.updateLayout()

	version := a.messageVersion
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return messageExpireMsg{version: version}
	})
}

// scanBusy reports whether a session is waiting for the camera or scanning
func (a App) scanBusy() bool {
	return a.phase == core.PhaseRequesting || a.phase == core.PhaseScanning
}

func (a App) spinnerTick() tea.Cmd {
	return tea.Tick(spinnerTickInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// shutdown releases the camera and flushes persistent state
func (a App) shutdown() {
	a.ctrl.Dispose()
	if a.watcher != nil {
		_ = a.watcher.Stop()
	}
	if err := a.location.Close(); err != nil {
		logging.Debug.Printf("[TUI] failed to save location: %v", err)
	}
}

// updateLayout calculates component sizes
func (a *App) updateLayout() {
	headerHeight := 2
	searchHeight := 3
	helpBarHeight := 1
	messageHeight := 0
	if a.message != "" {
		messageHeight = 3
	}

	bodyHeight := a.height - headerHeight - searchHeight - helpBarHeight - messageHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	listWidth := a.width
	if a.preview.IsVisible() {
		previewWidth := a.width / 2
		if previewWidth < 20 {
			previewWidth = 20
		}
		listWidth = a.width - previewWidth
		a.preview.SetSize(previewWidth, bodyHeight)
	}

	a.header.SetWidth(a.width)
	a.search.Width = a.width - 30
	a.list.SetSize(listWidth, bodyHeight)
	a.help.SetSize(a.width, a.height)
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	spinner := spinnerFrames[int(time.Now().UnixMilli()/spinnerTickInterval.Milliseconds())%len(spinnerFrames)]

	var sections []string
	sections = append(sections, a.header.View(spinner))
	sections = append(sections, a.renderSearchBar())

	body := a.list.View()
	if a.preview.IsVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, a.preview.View())
	}
	sections = append(sections, body)

	if a.message != "" {
		sections = append(sections, PopoverStyle.Width(a.width-2).Render(a.message))
	}

	sections = append(sections, HelpBar(a.width, a.caps))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if a.help.IsVisible() {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.help.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(ColorBackground),
		)
	}

	return content
}

// renderSearchBar renders the search field with its scan and copy buttons
func (a App) renderSearchBar() string {
	var buttons []string
	if a.caps.CanScan() {
		style := ButtonStyle
		if !a.triggerEnabled {
			style = ButtonDisabled
		}
		buttons = append(buttons, style.Render("s Scan"))
	}
	if a.caps.Clipboard {
		label, style := "c Copy", ButtonStyle
		if !a.copyEnabled {
			label, style = "✅", ButtonDisabled
		}
		buttons = append(buttons, style.Render(label))
	}

	panel := SearchPanelStyle
	if a.search.Focused() {
		panel = SearchPanelFocused
	}

	right := strings.Join(buttons, " ")
	inputWidth := a.width - lipgloss.Width(right) - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	input := lipgloss.NewStyle().Width(inputWidth).Render(a.search.View())
	return panel.Render(lipgloss.JoinHorizontal(lipgloss.Center, input, " ", right))
}
