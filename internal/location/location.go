// Package location keeps the shareable location of the current view.
// The search value lives in its "search" query parameter, the same way a
// web page would keep it in its URL, and is persisted between runs.
package location

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SearchParam is the query parameter that carries the search value
const SearchParam = "search"

// BaseURL is the location used when nothing has been saved yet
const BaseURL = "shelfscan://books/"

// state is the on-disk form of a location
type state struct {
	URL string `json:"url"`
}

// Manager holds the current location and saves it to disk
type Manager struct {
	path         string
	url          *url.URL
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a location manager persisting to path
func NewManager(path string) *Manager {
	u, _ := url.Parse(BaseURL)
	return &Manager{
		path:         path,
		url:          u,
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// DefaultPath returns the default location file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shelfscan-location.json"
	}
	return filepath.Join(home, ".shelfscan", "location.json")
}

// Load reads the saved location from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing saved yet, keep the base location
			return nil
		}
		return err
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode location: %w", err)
	}
	return m.setLocked(s.URL)
}

// Set replaces the location with a shared URL
func (m *Manager) Set(raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setLocked(raw); err != nil {
		return err
	}
	m.scheduleSaveLocked()
	return nil
}

func (m *Manager) setLocked(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse location: %w", err)
	}
	m.url = u
	return nil
}

// Search returns the search parameter and whether it is present
func (m *Manager) Search() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := m.url.Query()
	if !q.Has(SearchParam) {
		return "", false
	}
	return q.Get(SearchParam), true
}

// SetSearch stores value in the search parameter and schedules a save
func (m *Manager) SetSearch(value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.url.Query()
	if q.Has(SearchParam) && q.Get(SearchParam) == value {
		return
	}
	q.Set(SearchParam, value)
	m.url.RawQuery = q.Encode()
	m.scheduleSaveLocked()
}

// String returns the shareable URL
func (m *Manager) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.url.String()
}

// scheduleSaveLocked marks the location dirty and debounces a save
func (m *Manager) scheduleSaveLocked() {
	m.dirty = true

	// Cancel any pending save timer
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Save writes the location to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

// saveLocked saves without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state{URL: m.url.String()}, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// Close ensures any pending save is written
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
