// Package listing holds a fetched page of hydrated books and derives
// filtered, sorted views from it without refetching.
package listing

import (
	"sort"
	"strings"

	"github.com/ivanzak/bookden/internal/entities"
)

// Sentinel filter values that disable the respective predicate.
const (
	AllStatus  = "All Status"
	AllGenres  = "All Genres"
	AllAuthors = "All Authors"
)

// Sort keys. Date sorts use the row ID as a proxy for insertion order.
const (
	SortDateDesc  = "date_desc"
	SortDateAsc   = "date_asc"
	SortTitleAsc  = "title_asc"
	SortTitleDesc = "title_desc"
)

// Filters are ANDed; sentinel values switch a predicate off.
type Filters struct {
	Status string // exact match on reading status
	Author string // exact match on any linked author's first name
	Genre  string // exact match on any linked genre's name
}

// Composer keeps the full fetched page and recomputes the view whenever
// filters or the sort key change.
type Composer struct {
	books   []entities.Book
	filters Filters
	sortKey string
	view    []entities.Book
}

// NewComposer creates a composer over a fetched page with no filters and
// newest-first ordering.
func NewComposer(books []entities.Book) *Composer {
	c := &Composer{
		books:   books,
		filters: Filters{Status: AllStatus, Author: AllAuthors, Genre: AllGenres},
		sortKey: SortDateDesc,
	}
	c.recompute()
	return c
}

// SetBooks replaces the underlying page, keeping current filters and sort.
func (c *Composer) SetBooks(books []entities.Book) {
	c.books = books
	c.recompute()
}

// SetFilters replaces the filters and recomputes the view.
func (c *Composer) SetFilters(filters Filters) {
	if filters.Status == "" {
		filters.Status = AllStatus
	}
	if filters.Author == "" {
		filters.Author = AllAuthors
	}
	if filters.Genre == "" {
		filters.Genre = AllGenres
	}
	c.filters = filters
	c.recompute()
}

// SetSort replaces the sort key and recomputes the view.
func (c *Composer) SetSort(key string) {
	c.sortKey = key
	c.recompute()
}

// View returns the current filtered, sorted slice.
func (c *Composer) View() []entities.Book {
	return c.view
}

func (c *Composer) recompute() {
	view := make([]entities.Book, 0, len(c.books))
	for _, b := range c.books {
		if !c.matches(b) {
			continue
		}
		view = append(view, b)
	}

	switch c.sortKey {
	case SortDateAsc:
		sort.SliceStable(view, func(i, j int) bool { return view[i].ID < view[j].ID })
	case SortTitleAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return strings.ToLower(view[i].Title) < strings.ToLower(view[j].Title)
		})
	case SortTitleDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return strings.ToLower(view[i].Title) > strings.ToLower(view[j].Title)
		})
	default: // SortDateDesc
		sort.SliceStable(view, func(i, j int) bool { return view[i].ID > view[j].ID })
	}

	c.view = view
}

func (c *Composer) matches(b entities.Book) bool {
	if c.filters.Status != AllStatus && string(b.Status) != c.filters.Status {
		return false
	}
	if c.filters.Author != AllAuthors {
		found := false
		for _, a := range b.Authors {
			if a.FirstName == c.filters.Author {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.filters.Genre != AllGenres {
		found := false
		for _, g := range b.Genres {
			if g.Name == c.filters.Genre {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
