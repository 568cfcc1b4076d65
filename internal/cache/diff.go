package cache

import (
	"fmt"
	"strings"

	"github.com/lumipallolabs/shelfscan/internal/model"
)

// Changes lists how a book list differs from an earlier one. Books are
// matched by ISBN.
type Changes struct {
	Added   []model.Book
	Removed []model.Book
	Updated []model.Book // Current version of books whose details changed
}

// Diff compares current against previous. Without a previous list every
// current book counts as added.
func Diff(previous, current *model.Library) Changes {
	var c Changes
	if current == nil {
		current = &model.Library{}
	}
	if previous == nil {
		c.Added = append(c.Added, current.Books...)
		return c
	}

	// Build lookup maps by ISBN
	prevMap := buildISBNMap(previous.Books)
	curMap := buildISBNMap(current.Books)

	for _, b := range current.Books {
		prev, exists := prevMap[b.ISBN]
		switch {
		case !exists:
			c.Added = append(c.Added, b)
		case prev != b:
			c.Updated = append(c.Updated, b)
		}
	}
	for _, b := range previous.Books {
		if _, exists := curMap[b.ISBN]; !exists {
			c.Removed = append(c.Removed, b)
		}
	}
	return c
}

func buildISBNMap(books []model.Book) map[string]model.Book {
	m := make(map[string]model.Book, len(books))
	for _, b := range books {
		m[b.ISBN] = b
	}
	return m
}

// Empty reports whether nothing changed
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Updated) == 0
}

// Summary describes the changes in a short phrase, e.g. "2 added, 1 removed"
func (c Changes) Summary() string {
	var parts []string
	if n := len(c.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(c.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(c.Updated); n > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", n))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}
