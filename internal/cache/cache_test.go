package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumipallolabs/shelfscan/internal/model"
)

func TestSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	c := New(tmp)

	lib := &model.Library{
		Books: []model.Book{
			{ISBN: "9780441172719", Title: "Dune", Authors: "Frank Herbert", Year: "1965"},
		},
		Sources: []string{"/books/scifi.csv"},
	}

	// Save
	if err := c.Save(lib); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify file exists
	files, _ := filepath.Glob(filepath.Join(tmp, "library_*.gob.gz"))
	if len(files) != 1 {
		t.Fatalf("expected 1 snapshot file, got %d", len(files))
	}

	// Load
	loaded, err := c.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}

	if len(loaded.Books) != 1 || loaded.Books[0] != lib.Books[0] {
		t.Errorf("expected %v, got %v", lib.Books, loaded.Books)
	}
	if len(loaded.Sources) != 1 || loaded.Sources[0] != lib.Sources[0] {
		t.Errorf("expected sources %v, got %v", lib.Sources, loaded.Sources)
	}

	ts, err := c.Timestamp()
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if time.Since(ts) > time.Minute || time.Since(ts) < -time.Second {
		t.Errorf("unexpected timestamp %v", ts)
	}
}

func TestSaveKeepsLatestOnly(t *testing.T) {
	tmp := t.TempDir()
	c := New(tmp)

	first := &model.Library{Books: []model.Book{{ISBN: "1"}}}
	second := &model.Library{Books: []model.Book{{ISBN: "2"}}}

	if err := c.Save(first); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := c.Save(second); err != nil {
		t.Fatal(err)
	}

	files, _ := filepath.Glob(filepath.Join(tmp, "library_*.gob.gz"))
	if len(files) != 1 {
		t.Errorf("expected 1 snapshot file, got %d", len(files))
	}

	loaded, err := c.LoadLatest()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Books) != 1 || loaded.Books[0].ISBN != "2" {
		t.Errorf("expected latest snapshot, got %v", loaded.Books)
	}
}

func TestLoadLatestNoCache(t *testing.T) {
	tmp := t.TempDir()
	c := New(tmp)

	_, err := c.LoadLatest()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}
