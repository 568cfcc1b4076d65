package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/shelfscan/internal/cache"
	"github.com/lumipallolabs/shelfscan/internal/camera"
	"github.com/lumipallolabs/shelfscan/internal/camera/gocvcam"
	"github.com/lumipallolabs/shelfscan/internal/clipboard"
	"github.com/lumipallolabs/shelfscan/internal/location"
	"github.com/lumipallolabs/shelfscan/internal/logging"
	"github.com/lumipallolabs/shelfscan/internal/model"
	"github.com/lumipallolabs/shelfscan/internal/scanner"
	"github.com/lumipallolabs/shelfscan/internal/ui/tui"
	"github.com/lumipallolabs/shelfscan/internal/watcher"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	defaults := gocvcam.DefaultConfig()

	booksPath := flag.String("books", "", "book list file or directory (default ~/.shelfscan/books.json)")
	search := flag.String("search", "", "initial search value")
	shared := flag.String("url", "", "open a shared location, e.g. shelfscan://books/?search=...")
	device := flag.Int("device", defaults.EnvironmentDevice, "camera index of the environment-facing camera")
	frontDevice := flag.Int("front-device", defaults.UserDevice, "camera index of the user-facing camera (-1 for none)")
	interval := flag.Duration("interval", scanner.DefaultInterval, "barcode detection interval")
	noPopover := flag.Bool("no-popover", false, "log messages instead of showing them")
	noBeep := flag.Bool("no-beep", false, "do not ring the bell after a successful scan")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("shelfscan", version)
		return
	}

	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cpuProfile)
	}

	loc := location.NewManager(location.DefaultPath())
	if err := loc.Load(); err != nil {
		logging.Debug.Printf("[main] could not load location: %v", err)
	}
	if *shared != "" {
		if err := loc.Set(*shared); err != nil {
			log.Fatal(err)
		}
	}
	if *search != "" {
		loc.SetSearch(*search)
	}

	path := *booksPath
	if path == "" {
		path = defaultBooksPath()
	}
	lib, err := model.Load(context.Background(), path)
	if err != nil {
		if *booksPath != "" || !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("could not load books: %v", err)
		}
		logging.Debug.Printf("[main] no book list at %s", path)
		lib = &model.Library{}
	}

	camCfg := defaults
	camCfg.EnvironmentDevice = *device
	camCfg.UserDevice = *frontDevice

	caps := detectCapabilities(camCfg, *noPopover, *noBeep)
	logging.Debug.Printf("[main] capabilities: %+v", caps)

	var w *watcher.Watcher
	if lib.Sources != nil {
		w = startWatcher(path)
	}

	p := tea.NewProgram(
		tui.NewApp(tui.Options{
			Version:   version,
			Library:   lib,
			BooksPath: path,
			Location:  loc,
			Camera:    gocvcam.NewDevice(camCfg),
			Poller:    scanner.NewPoller(scanner.NewZXingDetector, scanner.ISBNFormat, *interval),
			Beeper:    tui.NewBell(os.Stderr, caps.Audio),
			Clipboard: clipboard.New(os.Stderr),
			Watcher:   w,
			Snapshots: cache.New(cache.DefaultDir()),
			Caps:      caps,
		}),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// defaultBooksPath returns ~/.shelfscan/books.json
func defaultBooksPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "books.json"
	}
	return filepath.Join(home, ".shelfscan", "books.json")
}

// detectCapabilities checks once which device features are usable
func detectCapabilities(cfg gocvcam.Config, noPopover, noBeep bool) tui.Capabilities {
	start := time.Now()
	caps := tui.Capabilities{
		Camera:    camera.Available(cfg.EnvironmentDevice),
		Clipboard: clipboard.Supported(os.Stderr),
		Popover:   !noPopover,
		Audio:     !noBeep,
	}
	if _, err := scanner.NewZXingDetector(scanner.ISBNFormat); err == nil {
		caps.Detector = true
	}
	logging.Debug.Printf("[main] checked capabilities in %v", time.Since(start))
	return caps
}

// startWatcher watches the book list so edits show up without a restart
func startWatcher(path string) *watcher.Watcher {
	w, err := watcher.New()
	if err != nil {
		logging.Debug.Printf("[main] watcher unavailable: %v", err)
		return nil
	}
	if err := w.Add(path); err != nil {
		logging.Debug.Printf("[main] cannot watch %s: %v", path, err)
		_ = w.Stop()
		return nil
	}
	w.Start()
	return w
}
