// Package cache keeps snapshots of the loaded book list so changes since
// the previous run can be reported.
package cache

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lumipallolabs/shelfscan/internal/model"
)

const (
	filePrefix = "library_"
	fileSuffix = ".gob.gz"
	timeLayout = "2006-01-02_150405.000000"
)

// ErrNoSnapshot is returned when nothing has been saved yet
var ErrNoSnapshot = errors.New("no snapshot")

// snapshot is the on-disk form of a library
type snapshot struct {
	Books   []model.Book
	Sources []string
}

// Cache handles saving and loading library snapshots
type Cache struct {
	dir string
}

// New creates a new cache in the given directory
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// DefaultDir returns the default cache directory
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shelfscan-cache"
	}
	return filepath.Join(home, ".shelfscan", "cache")
}

// Save writes a snapshot of lib and removes older ones
func (c *Cache) Save(lib *model.Library) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(c.dir, filePrefix+time.Now().Format(timeLayout)+fileSuffix)
	if err := writeSnapshot(path, lib); err != nil {
		return err
	}

	files, err := c.files()
	if err != nil {
		return err
	}
	for _, f := range files {
		if f != path {
			_ = os.Remove(f)
		}
	}
	return nil
}

func writeSnapshot(path string, lib *model.Library) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzWriter)
	if err := encoder.Encode(snapshot{Books: lib.Books, Sources: lib.Sources}); err != nil {
		gzWriter.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// LoadLatest loads the most recent snapshot
func (c *Cache) LoadLatest() (*model.Library, error) {
	latest, err := c.latest()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(latest)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzReader.Close()

	var s snapshot
	decoder := gob.NewDecoder(gzReader)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &model.Library{Books: s.Books, Sources: s.Sources}, nil
}

// Timestamp returns when the latest snapshot was taken
func (c *Cache) Timestamp() (time.Time, error) {
	latest, err := c.latest()
	if err != nil {
		return time.Time{}, err
	}

	// Extract timestamp from filename
	base := filepath.Base(latest)
	base = strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileSuffix)
	return time.ParseInLocation(timeLayout, base, time.Local)
}

func (c *Cache) latest() (string, error) {
	files, err := c.files()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoSnapshot
	}
	return files[len(files)-1], nil
}

// files returns the snapshot files, oldest first (names include the time)
func (c *Cache) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(c.dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("glob: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
