package recommendations

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanzak/bookden/internal/entities"
	"github.com/ivanzak/bookden/internal/metadata"
)

type fakeSearcher struct {
	authorQueries  []string
	subjectQueries []string
	requestSizes   []int
	byAuthor       map[string][]metadata.BookResult
	bySubject      map[string][]metadata.BookResult
}

func (f *fakeSearcher) SearchByAuthor(_ context.Context, author string, maxResults int) ([]metadata.BookResult, error) {
	f.authorQueries = append(f.authorQueries, author)
	f.requestSizes = append(f.requestSizes, maxResults)
	return f.byAuthor[author], nil
}

func (f *fakeSearcher) SearchBySubject(_ context.Context, subject string, maxResults int) ([]metadata.BookResult, error) {
	f.subjectQueries = append(f.subjectQueries, subject)
	f.requestSizes = append(f.requestSizes, maxResults)
	return f.bySubject[subject], nil
}

func strPtr(s string) *string { return &s }

func collectionOf(specs ...struct {
	title   string
	authors []entities.Author
	genres  []string
}) []entities.Book {
	books := make([]entities.Book, len(specs))
	for i, s := range specs {
		genres := make([]entities.Genre, len(s.genres))
		for j, g := range s.genres {
			genres[j] = entities.Genre{Name: g}
		}
		books[i] = entities.Book{Title: s.title, Authors: s.authors, Genres: genres}
	}
	return books
}

func TestComposer_AuthorsFirstThenGenres(t *testing.T) {
	herbert := []entities.Author{{FirstName: "Frank", LastName: strPtr("Herbert")}}
	searcher := &fakeSearcher{
		byAuthor: map[string][]metadata.BookResult{
			"Frank Herbert": {{Title: "Heretics of Dune"}},
		},
		bySubject: map[string][]metadata.BookResult{
			"Sci-Fi": {{Title: "Hyperion"}},
		},
	}

	collection := []entities.Book{
		{Title: "Dune", Authors: herbert, Genres: []entities.Genre{{Name: "Sci-Fi"}}},
		{Title: "Dune Messiah", Authors: herbert, Genres: []entities.Genre{{Name: "Sci-Fi"}}},
	}

	groups, err := NewComposer(searcher).Recommend(context.Background(), collection)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Because you read Frank Herbert", groups[0].Label)
	assert.Equal(t, "Popular in Sci-Fi", groups[1].Label)
}

func TestComposer_ExcludesOwnedTitles(t *testing.T) {
	herbert := []entities.Author{{FirstName: "Frank", LastName: strPtr("Herbert")}}
	searcher := &fakeSearcher{
		byAuthor: map[string][]metadata.BookResult{
			"Frank Herbert": {
				{Title: "DUNE"}, // owned, case differs
				{Title: "Heretics of Dune"},
			},
		},
	}

	collection := []entities.Book{{Title: "Dune", Authors: herbert}}

	groups, err := NewComposer(searcher).Recommend(context.Background(), collection)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Books, 1)
	assert.Equal(t, "Heretics of Dune", groups[0].Books[0].Title)
}

func TestComposer_TopThreeFacetsByFrequency(t *testing.T) {
	mk := func(first string) []entities.Author {
		return []entities.Author{{FirstName: first}}
	}
	searcher := &fakeSearcher{
		byAuthor: map[string][]metadata.BookResult{
			"Alpha": {{Title: "A"}}, "Beta": {{Title: "B"}},
			"Gamma": {{Title: "C"}}, "Delta": {{Title: "D"}},
		},
	}

	collection := []entities.Book{
		{Title: "1", Authors: mk("Alpha")},
		{Title: "2", Authors: mk("Alpha")},
		{Title: "3", Authors: mk("Beta")},
		{Title: "4", Authors: mk("Beta")},
		{Title: "5", Authors: mk("Gamma")},
		{Title: "6", Authors: mk("Gamma")},
		{Title: "7", Authors: mk("Delta")},
	}

	_, err := NewComposer(searcher).Recommend(context.Background(), collection)
	require.NoError(t, err)
	// Delta appears once and loses to the three two-count authors.
	assert.ElementsMatch(t, []string{"Alpha", "Beta", "Gamma"}, searcher.authorQueries)
}

func TestComposer_LongestVariantWinsOnNormalizationTie(t *testing.T) {
	searcher := &fakeSearcher{
		byAuthor: map[string][]metadata.BookResult{
			"J.R.R. Tolkien": {{Title: "Unfinished Tales"}},
		},
	}

	collection := []entities.Book{
		{Title: "The Hobbit", Authors: []entities.Author{{FirstName: "JRR", LastName: strPtr("Tolkien")}}},
		{Title: "LOTR", Authors: []entities.Author{{FirstName: "J.R.R.", LastName: strPtr("Tolkien")}}},
	}

	groups, err := NewComposer(searcher).Recommend(context.Background(), collection)
	require.NoError(t, err)
	assert.Equal(t, []string{"J.R.R. Tolkien"}, searcher.authorQueries)
	require.Len(t, groups, 1)
	assert.Equal(t, "Because you read J.R.R. Tolkien", groups[0].Label)
}

func TestComposer_EmptyCollectionFallsBack(t *testing.T) {
	searcher := &fakeSearcher{
		bySubject: map[string][]metadata.BookResult{
			"fiction": {{Title: "Some Novel"}},
		},
	}

	groups, err := NewComposer(searcher).Recommend(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Top Picks", groups[0].Label)
	assert.Equal(t, []string{"fiction"}, searcher.subjectQueries)
}

func TestComposer_ClampsProviderRequestSize(t *testing.T) {
	searcher := &fakeSearcher{
		byAuthor:  map[string][]metadata.BookResult{"Prolific": {{Title: "Fresh Title"}}},
		bySubject: map[string][]metadata.BookResult{"Fantasy": {{Title: "Another Title"}}},
	}

	// Large collections must not push maxResults past the provider cap.
	collection := make([]entities.Book, 50)
	for i := range collection {
		collection[i] = entities.Book{
			Title:   fmt.Sprintf("Owned %d", i),
			Authors: []entities.Author{{FirstName: "Prolific"}},
			Genres:  []entities.Genre{{Name: "Fantasy"}},
		}
	}

	groups, err := NewComposer(searcher).Recommend(context.Background(), collection)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.NotEmpty(t, searcher.requestSizes)
	for _, n := range searcher.requestSizes {
		assert.Equal(t, maxResultsCap, n)
	}
}

func TestComposer_CapsResultsPerGroup(t *testing.T) {
	many := make([]metadata.BookResult, 10)
	for i := range many {
		many[i] = metadata.BookResult{Title: string(rune('A' + i))}
	}
	searcher := &fakeSearcher{
		byAuthor: map[string][]metadata.BookResult{"Solo": many},
	}

	collection := []entities.Book{{Title: "Owned", Authors: []entities.Author{{FirstName: "Solo"}}}}

	groups, err := NewComposer(searcher).Recommend(context.Background(), collection)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Books, resultsPerItem)
}
