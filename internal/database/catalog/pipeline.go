package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	gosimpleslug "github.com/gosimple/slug"

	"booklibrary/internal/entities"
)

// Entry is one catalog row handed to the views: the book plus the
// viewer's read flag. Read is nil for anonymous viewers; code that
// needs the flag must check for a viewer first instead of silently
// assuming false.
type Entry struct {
	entities.Book
	Read *bool
}

// Sort is the catalog ordering requested via ?sorted=.
type Sort string

const (
	SortLatest Sort = "latest"
	SortTitle  Sort = "title"
	SortYear   Sort = "year_of_publication"
	SortRead   Sort = "read"
)

// ErrReadSortRequiresViewer is returned when sorted=read is requested
// without an authenticated viewer. That combination is a client error,
// not a silent fallback.
var ErrReadSortRequiresViewer = errors.New("sorting by read status requires authentication")

// ParseSort maps the request parameter onto a Sort. Unknown or absent
// values default to latest.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortLatest, SortTitle, SortYear, SortRead:
		return Sort(s)
	default:
		return SortLatest
	}
}

// Normalize reduces free text to the same URL-safe form used for slug
// derivation, so search terms and stored slugs compare consistently.
func Normalize(q string) string {
	return gosimpleslug.Make(strings.TrimSpace(q))
}

// Search keeps the entries matching the free-text query. The query is
// normalized like a slug, then a book matches if ANY of the following
// holds: its slug contains the term, any author slug contains the term,
// any genre slug contains the term, or the term parses as an integer
// equal to the publication year. An empty query keeps everything.
func Search(entries []Entry, query string) []Entry {
	term := Normalize(query)
	if term == "" {
		return entries
	}

	year, yearOK := parseInt(term)

	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matchesTerm(e.Book, term, year, yearOK) {
			matched = append(matched, e)
		}
	}
	return matched
}

func matchesTerm(b entities.Book, term string, year int, yearOK bool) bool {
	if strings.Contains(b.Slug, term) {
		return true
	}
	for _, a := range b.Authors {
		if strings.Contains(a.Slug, term) {
			return true
		}
	}
	for _, g := range b.Genres {
		if strings.Contains(g.Slug, term) {
			return true
		}
	}
	return yearOK && b.YearOfPublication == year
}

// SortEntries orders the entries in place. The read sort is a stable
// partition (read books first) over the incoming order and only
// reorders, never filters; it requires every entry to carry a read
// flag, so callers must reject it for anonymous viewers beforehand.
func SortEntries(entries []Entry, by Sort) error {
	switch by {
	case SortTitle:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Title < entries[j].Title
		})
	case SortYear:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].YearOfPublication < entries[j].YearOfPublication
		})
	case SortRead:
		for _, e := range entries {
			if e.Read == nil {
				return ErrReadSortRequiresViewer
			}
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return *entries[i].Read && !*entries[j].Read
		})
	default: // latest
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].ID > entries[j].ID
		})
	}
	return nil
}

// AnnotateRead attaches the viewer's read flag to every entry.
// readBookIDs holds the IDs of books the viewer has marked read.
func AnnotateRead(entries []Entry, readBookIDs map[uint]bool) {
	for i := range entries {
		read := readBookIDs[entries[i].ID]
		entries[i].Read = &read
	}
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
