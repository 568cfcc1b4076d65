package location

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetSearch(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "location.json"))

	if _, ok := m.Search(); ok {
		t.Fatal("fresh location should have no search parameter")
	}

	m.SetSearch("9780316769488")

	value, ok := m.Search()
	if !ok || value != "9780316769488" {
		t.Errorf("expected search 9780316769488, got %q (present: %v)", value, ok)
	}
	if !strings.Contains(m.String(), "search=9780316769488") {
		t.Errorf("expected URL to carry search parameter, got %s", m.String())
	}
}

func TestSetSearchEscapes(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "location.json"))
	m.SetSearch("le guin & co")

	value, _ := m.Search()
	if value != "le guin & co" {
		t.Errorf("expected round-tripped value, got %q", value)
	}
	if strings.Contains(m.String(), " ") {
		t.Errorf("URL should be escaped, got %s", m.String())
	}
}

func TestCloseWritesPendingSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "location.json")
	m := NewManager(path)
	m.SetSearch("dune")

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected location file: %v", err)
	}

	loaded := NewManager(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if value, ok := loaded.Search(); !ok || value != "dune" {
		t.Errorf("expected saved search 'dune', got %q", value)
	}
}

func TestLoadMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"))
	if err := m.Load(); err != nil {
		t.Errorf("missing file should not be an error: %v", err)
	}
	if m.String() != BaseURL {
		t.Errorf("expected base URL, got %s", m.String())
	}
}

func TestSetSharedURL(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "location.json"))
	if err := m.Set("shelfscan://books/?search=tolkien"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _ := m.Search(); value != "tolkien" {
		t.Errorf("expected tolkien, got %q", value)
	}
	_ = m.Close()
}
