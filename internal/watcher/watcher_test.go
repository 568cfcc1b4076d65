package watcher

import (
	"path/filepath"
	"testing"
)

func TestTargetMatchesFile(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "home", "reader", "books.json")
	tg := target{root: root}

	if !tg.matches(root) {
		t.Error("expected the file itself to match")
	}
	if tg.matches(filepath.Join(filepath.Dir(root), "other.json")) {
		t.Error("sibling files must not match")
	}
	if tg.dir() != filepath.Dir(root) {
		t.Errorf("expected parent dir to be watched, got %s", tg.dir())
	}
}

func TestTargetMatchesDirectory(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "home", "reader", "shelf")
	tg := target{root: root, isDir: true}

	if !tg.matches(filepath.Join(root, "sub", "books.csv")) {
		t.Error("expected nested file to match")
	}
	if tg.matches(root + "-old") {
		t.Error("paths sharing a prefix must not match")
	}
	if tg.dir() != root {
		t.Errorf("expected directory itself to be watched, got %s", tg.dir())
	}
}
