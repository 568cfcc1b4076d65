package model

import "testing"

func testLibrary() *Library {
	return &Library{Books: []Book{
		{ISBN: "9780143127741", Title: "The Overstory", Authors: "Richard Powers", Year: "2018"},
		{ISBN: "9780316769488", Title: "The Catcher in the Rye", Authors: "J. D. Salinger", Year: "1951"},
		{ISBN: "9780441013593", Title: "Dune", Authors: "Frank Herbert", Year: "1965"},
	}}
}

func TestSearchEmptyQuery(t *testing.T) {
	lib := testLibrary()
	if got := lib.Search("  "); len(got) != 3 {
		t.Errorf("expected all 3 books, got %d", len(got))
	}
}

func TestSearchByISBN(t *testing.T) {
	lib := testLibrary()
	got := lib.Search("9780316769488")
	if len(got) != 1 || got[0].Title != "The Catcher in the Rye" {
		t.Errorf("expected The Catcher in the Rye, got %v", got)
	}
}

func TestSearchIgnoresCase(t *testing.T) {
	lib := testLibrary()
	got := lib.Search("HERBERT")
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Errorf("expected Dune, got %v", got)
	}

	if got := lib.Search("the"); len(got) != 2 {
		t.Errorf("expected 2 matches for 'the', got %d", len(got))
	}
}

func TestSearchNoMatch(t *testing.T) {
	lib := testLibrary()
	if got := lib.Search("9780000000000"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestSortByTitle(t *testing.T) {
	books := testLibrary().Books
	SortByTitle(books)

	if books[0].Title != "Dune" {
		t.Errorf("expected 'Dune' first, got %s", books[0].Title)
	}
	if books[2].Title != "The Overstory" {
		t.Errorf("expected 'The Overstory' last, got %s", books[2].Title)
	}
}
