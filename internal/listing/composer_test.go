package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivanzak/bookden/internal/entities"
)

func samplePage() []entities.Book {
	return []entities.Book{
		{
			ID:     1,
			Title:  "dune",
			Status: entities.StatusCompleted,
			Authors: []entities.Author{
				{FirstName: "Frank"},
			},
			Genres: []entities.Genre{{Name: "Sci-Fi"}},
		},
		{
			ID:     2,
			Title:  "The Hobbit",
			Status: entities.StatusUnread,
			Authors: []entities.Author{
				{FirstName: "J.R.R."},
			},
			Genres: []entities.Genre{{Name: "Fantasy"}},
		},
		{
			ID:     3,
			Title:  "Dune Messiah",
			Status: entities.StatusUnread,
			Authors: []entities.Author{
				{FirstName: "Frank"},
			},
			Genres: []entities.Genre{{Name: "Sci-Fi"}},
		},
	}
}

func titles(view []entities.Book) []string {
	out := make([]string, len(view))
	for i, b := range view {
		out[i] = b.Title
	}
	return out
}

func TestComposer_DefaultViewIsNewestFirst(t *testing.T) {
	c := NewComposer(samplePage())

	assert.Equal(t, []string{"Dune Messiah", "The Hobbit", "dune"}, titles(c.View()))
}

func TestComposer_StatusFilter(t *testing.T) {
	c := NewComposer(samplePage())

	c.SetFilters(Filters{Status: string(entities.StatusUnread)})
	assert.Equal(t, []string{"Dune Messiah", "The Hobbit"}, titles(c.View()))

	// Sentinel re-enables everything.
	c.SetFilters(Filters{Status: AllStatus})
	assert.Len(t, c.View(), 3)
}

func TestComposer_AuthorAndGenreFiltersAreANDed(t *testing.T) {
	c := NewComposer(samplePage())

	c.SetFilters(Filters{Author: "Frank", Genre: "Sci-Fi"})
	assert.Equal(t, []string{"Dune Messiah", "dune"}, titles(c.View()))

	c.SetFilters(Filters{Author: "Frank", Genre: "Fantasy"})
	assert.Empty(t, c.View())
}

func TestComposer_TitleSortIsCaseInsensitive(t *testing.T) {
	c := NewComposer(samplePage())

	c.SetSort(SortTitleAsc)
	assert.Equal(t, []string{"dune", "Dune Messiah", "The Hobbit"}, titles(c.View()))

	c.SetSort(SortTitleDesc)
	assert.Equal(t, []string{"The Hobbit", "Dune Messiah", "dune"}, titles(c.View()))
}

func TestComposer_DateAscSortsByID(t *testing.T) {
	c := NewComposer(samplePage())

	c.SetSort(SortDateAsc)
	assert.Equal(t, []string{"dune", "The Hobbit", "Dune Messiah"}, titles(c.View()))
}

func TestComposer_SetBooksKeepsFiltersAndSort(t *testing.T) {
	c := NewComposer(samplePage())
	c.SetFilters(Filters{Genre: "Sci-Fi"})
	c.SetSort(SortTitleAsc)

	c.SetBooks(samplePage()[:1])
	assert.Equal(t, []string{"dune"}, titles(c.View()))
}

func TestComposer_EmptyFilterFieldsBecomeSentinels(t *testing.T) {
	c := NewComposer(samplePage())

	c.SetFilters(Filters{})
	assert.Len(t, c.View(), 3)
}
