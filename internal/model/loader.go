package model

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/lumipallolabs/shelfscan/internal/logging"
)

// ErrUnsupportedFormat is returned for book files that are neither JSON nor CSV
var ErrUnsupportedFormat = errors.New("unsupported book list format")

// bookExtensions are the file extensions considered when walking a directory
var bookExtensions = map[string]bool{
	".json": true,
	".csv":  true,
}

// Load reads a book list from a file, or from every book file below a directory
func Load(ctx context.Context, path string) (*Library, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindBookFiles(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	lib := &Library{}
	for _, f := range files {
		books, err := LoadFile(f)
		if err != nil {
			if info.IsDir() && errors.Is(err, ErrUnsupportedFormat) {
				logging.Debug.Printf("[Loader] skipping %s: %v", f, err)
				continue
			}
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		lib.Books = append(lib.Books, books...)
		lib.Sources = append(lib.Sources, f)
	}

	SortByTitle(lib.Books)
	logging.Debug.Printf("[Loader] loaded %d books from %d files", len(lib.Books), len(lib.Sources))
	return lib, nil
}

// FindBookFiles walks root in parallel and returns the book files below it, sorted
func FindBookFiles(ctx context.Context, root string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !bookExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		mu.Lock()
		files = append(files, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// LoadFile reads one book file, detecting JSON or CSV from its content
func LoadFile(path string) ([]Book, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch {
	case mtype.Is("application/json"):
		return decodeJSON(f)
	case mtype.Is("text/csv"), mtype.Is("text/plain") && strings.EqualFold(filepath.Ext(path), ".csv"):
		return decodeCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}
}

// decodeJSON reads an array of book objects
func decodeJSON(r io.Reader) ([]Book, error) {
	var books []Book
	if err := json.NewDecoder(r).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return books, nil
}

// decodeCSV reads a CSV file with a header row naming the columns
func decodeCSV(r io.Reader) ([]Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["isbn"]; !ok {
		return nil, fmt.Errorf("decode csv: missing isbn column")
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var books []Book
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		books = append(books, Book{
			ISBN:    field(record, "isbn"),
			Title:   field(record, "title"),
			Authors: field(record, "authors"),
			Year:    field(record, "year"),
		})
	}
	return books, nil
}
