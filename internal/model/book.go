package model

import (
	"sort"
	"strings"
)

// Book is one entry of the personal book list
type Book struct {
	ISBN    string `json:"isbn"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    string `json:"year"`
}

// Matches reports whether any searchable field contains the query,
// ignoring case. The query is expected to be lowercased already.
func (b Book) Matches(query string) bool {
	for _, field := range []string{b.ISBN, b.Title, b.Authors, b.Year} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Library is the loaded book list
type Library struct {
	Books   []Book
	Sources []string // Files the books were read from
}

// Search returns the books matching the query. An empty query matches all.
func (l *Library) Search(query string) []Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return l.Books
	}

	var matches []Book
	for _, b := range l.Books {
		if b.Matches(query) {
			matches = append(matches, b)
		}
	}
	return matches
}

// SortByTitle sorts books by title, then year
func SortByTitle(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		ti, tj := strings.ToLower(books[i].Title), strings.ToLower(books[j].Title)
		if ti != tj {
			return ti < tj
		}
		return books[i].Year < books[j].Year
	})
}
