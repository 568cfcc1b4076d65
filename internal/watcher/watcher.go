// Package watcher reports changes to the book list on disk.
package watcher

import (
	"path/filepath"
	"strings"
)

// EventType represents the type of filesystem event
type EventType int

const (
	EventModified EventType = iota
	EventDeleted
)

// Event represents a filesystem change event
type Event struct {
	Type EventType
	Path string
}

// target is a watched path. Files are watched through their directory,
// so events must be filtered back down to the file itself.
type target struct {
	root  string
	isDir bool
}

// matches reports whether an event path belongs to the target
func (t target) matches(path string) bool {
	path = filepath.Clean(path)
	if !t.isDir {
		return path == t.root
	}
	return path == t.root || strings.HasPrefix(path, t.root+string(filepath.Separator))
}

// dir returns the directory that has to be watched for the target
func (t target) dir() string {
	if t.isDir {
		return t.root
	}
	return filepath.Dir(t.root)
}
