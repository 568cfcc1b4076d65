//go:build !darwin && !windows

package watcher

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches for filesystem changes using fsnotify (inotify on Linux)
type Watcher struct {
	fs      *fsnotify.Watcher
	target  target
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:      fw,
		eventCh: make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// Add watches a book file or a directory of book files. Directories are
// watched recursively since inotify only covers one level.
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

	if !w.target.isDir {
		return w.fs.Add(w.target.dir())
	}
	return filepath.WalkDir(abs, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.fs.Add(p)
	})
}

func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.target.matches(event.Name) {
		return
	}

	var ev Event
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		ev = Event{Type: EventDeleted, Path: event.Name}
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		ev = Event{Type: EventModified, Path: event.Name}
		if w.target.isDir {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = w.fs.Add(event.Name)
			}
		}
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
	err := w.fs.Close()
	w.wg.Wait()
	close(w.eventCh)
	return err
}
