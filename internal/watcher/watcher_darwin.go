//go:build darwin

package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsevents"
)

// Watcher watches for filesystem changes using macOS FSEvents
type Watcher struct {
	stream  *fsevents.EventStream
	target  target
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

func New() (*Watcher, error) {
	return &Watcher{
		eventCh: make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// Add watches a book file or a directory of book files
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	w.target = target{root: abs, isDir: info.IsDir()}

	dev, err := fsevents.DeviceForPath(w.target.dir())
	if err != nil {
		return err
	}

	w.stream = &fsevents.EventStream{
		Paths:   []string{w.target.dir()},
		Latency: 500 * time.Millisecond,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	return nil
}

func (w *Watcher) Start() {
	if w.stream == nil {
		return
	}
	w.stream.Start()
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case events, ok := <-w.stream.Events:
			if !ok {
				return
			}
			for _, event := range events {
				w.handleEvent(event)
			}
		}
	}
}

const changeFlags = fsevents.ItemModified | fsevents.ItemCreated | fsevents.ItemRenamed

func (w *Watcher) handleEvent(event fsevents.Event) {
	path := event.Path
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	if !w.target.matches(path) {
		return
	}

	var ev Event
	switch {
	case event.Flags&fsevents.ItemRemoved != 0:
		ev = Event{Type: EventDeleted, Path: path}
	case event.Flags&changeFlags != 0:
		ev = Event{Type: EventModified, Path: path}
	default:
		return
	}

	select {
	case w.eventCh <- ev:
	default:
	}
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	if w.stream != nil {
		w.stream.Stop()
	}
	w.wg.Wait()
	close(w.eventCh)
	return nil
}
