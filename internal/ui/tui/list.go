package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lumipallolabs/shelfscan/internal/model"
)

// Column widths for the book table
const (
	isbnColumnWidth = 14
	yearColumnWidth = 5
)

// BookList displays the filtered book list as a table
type BookList struct {
	books  []model.Book
	cursor int
	offset int // scroll offset
	width  int
	height int
}

// NewBookList creates a new book list
func NewBookList() BookList {
	return BookList{}
}

// SetBooks replaces the displayed books and resets the cursor
func (l *BookList) SetBooks(books []model.Book) {
	l.books = books
	l.cursor = 0
	l.offset = 0
}

// Len returns the number of displayed books
func (l BookList) Len() int {
	return len(l.books)
}

// SetSize sets the panel dimensions
func (l *BookList) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.ensureVisible()
}

// Selected returns the book under the cursor
func (l BookList) Selected() *model.Book {
	if l.cursor >= 0 && l.cursor < len(l.books) {
		book := l.books[l.cursor]
		return &book
	}
	return nil
}

// MoveUp moves cursor up
func (l *BookList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.ensureVisible()
	}
}

// MoveDown moves cursor down
func (l *BookList) MoveDown() {
	if l.cursor < len(l.books)-1 {
		l.cursor++
		l.ensureVisible()
	}
}

// PageUp moves cursor up by one page
func (l *BookList) PageUp() {
	l.cursor -= l.pageSize()
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

// PageDown moves cursor down by one page
func (l *BookList) PageDown() {
	l.cursor += l.pageSize()
	if l.cursor >= len(l.books) {
		l.cursor = len(l.books) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

// GoToTop moves to the first book
func (l *BookList) GoToTop() {
	l.cursor = 0
	l.ensureVisible()
}

// GoToBottom moves to the last book
func (l *BookList) GoToBottom() {
	if len(l.books) > 0 {
		l.cursor = len(l.books) - 1
	}
	l.ensureVisible()
}

// rows is the number of book rows that fit below the column header
func (l BookList) rows() int {
	rows := l.height - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l BookList) pageSize() int {
	size := l.rows() - 1
	if size < 1 {
		size = 1
	}
	return size
}

// ensureVisible scrolls so the cursor row is on screen
func (l *BookList) ensureVisible() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.rows() {
		l.offset = l.cursor - l.rows() + 1
	}
}

// columns splits the remaining width between title and authors
func (l BookList) columns() (title, authors int) {
	rest := l.width - isbnColumnWidth - yearColumnWidth - 3
	if rest < 10 {
		rest = 10
	}
	title = rest * 3 / 5
	authors = rest - title
	return title, authors
}

// buildLine renders one row of the table
func (l BookList) buildLine(b model.Book, selected bool) string {
	titleW, authorsW := l.columns()
	isbnCell := fmt.Sprintf("%-*s", isbnColumnWidth, truncate(b.ISBN, isbnColumnWidth))
	restCells := fmt.Sprintf(" %-*s %-*s %*s",
		titleW, truncate(b.Title, titleW),
		authorsW, truncate(b.Authors, authorsW),
		yearColumnWidth, truncate(b.Year, yearColumnWidth))

	if selected {
		return ListItemSelected.Width(l.width).Render(isbnCell + restCells)
	}
	return ISBNStyle.Render(isbnCell) + ListItemStyle.Render(restCells)
}

// View renders the list
func (l BookList) View() string {
	titleW, authorsW := l.columns()
	header := ListHeaderStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %*s",
		isbnColumnWidth, "ISBN",
		titleW, "TITLE",
		authorsW, "AUTHORS",
		yearColumnWidth, "YEAR"))

	lines := []string{header}
	if len(l.books) == 0 {
		empty := lipgloss.NewStyle().Foreground(ColorDim).Italic(true)
		lines = append(lines, empty.Render("No matching books"))
	}

	end := l.offset + l.rows()
	if end > len(l.books) {
		end = len(l.books)
	}
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.buildLine(l.books[i], i == l.cursor))
	}

	for len(lines) < l.height {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().Width(l.width).Render(strings.Join(lines, "\n"))
}
