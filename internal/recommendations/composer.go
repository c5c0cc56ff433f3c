// Package recommendations derives reading suggestions from the user's
// collection: the most frequent authors and genres become metadata
// queries, with owned titles filtered out of the results.
package recommendations

import (
	"context"
	"log"
	"sort"
	"strings"
	"unicode"

	"github.com/ivanzak/bookden/internal/entities"
	"github.com/ivanzak/bookden/internal/metadata"
	"github.com/ivanzak/bookden/internal/names"
)

const (
	topFacets      = 3
	resultsPerItem = 5
	// Google Books rejects maxResults above 40 with a 400, so queries
	// are capped and owned titles are filtered out client-side.
	maxResultsCap = 40
	fallbackQuery = "fiction"
)

// Group is one labelled batch of suggestions.
type Group struct {
	Label string                `json:"label"`
	Books []metadata.BookResult `json:"books"`
}

// FacetSearcher is the metadata surface the composer queries.
type FacetSearcher interface {
	SearchByAuthor(ctx context.Context, author string, maxResults int) ([]metadata.BookResult, error)
	SearchBySubject(ctx context.Context, subject string, maxResults int) ([]metadata.BookResult, error)
}

// Composer builds recommendation groups.
type Composer struct {
	searcher FacetSearcher
}

// NewComposer creates a new recommendations composer.
func NewComposer(searcher FacetSearcher) *Composer {
	return &Composer{searcher: searcher}
}

// Recommend counts the collection's top authors and genres, queries the
// provider per facet, drops already-owned titles, and falls back to a
// generic fiction query when nothing qualifies. Author groups come
// first, then genre groups, then the fallback.
func (c *Composer) Recommend(ctx context.Context, collection []entities.Book) ([]Group, error) {
	ownedTitles := make(map[string]bool, len(collection))
	for _, b := range collection {
		ownedTitles[strings.ToLower(b.Title)] = true
	}

	topAuthors := topVariants(countAuthors(collection))
	topGenres := topVariants(countGenres(collection))

	perQuery := requestSize(len(collection))
	groups := make([]Group, 0, len(topAuthors)+len(topGenres)+1)

	for _, author := range topAuthors {
		results, err := c.searcher.SearchByAuthor(ctx, author, perQuery)
		if err != nil {
			// A single failed facet should not sink the whole page.
			log.Printf("recommendations: author query %q failed: %v", author, err)
			continue
		}
		if filtered := dropOwned(results, ownedTitles); len(filtered) > 0 {
			groups = append(groups, Group{
				Label: "Because you read " + author,
				Books: filtered,
			})
		}
	}

	for _, genre := range topGenres {
		results, err := c.searcher.SearchBySubject(ctx, genre, perQuery)
		if err != nil {
			log.Printf("recommendations: genre query %q failed: %v", genre, err)
			continue
		}
		if filtered := dropOwned(results, ownedTitles); len(filtered) > 0 {
			groups = append(groups, Group{
				Label: "Popular in " + genre,
				Books: filtered,
			})
		}
	}

	if len(groups) == 0 {
		results, err := c.searcher.SearchBySubject(ctx, fallbackQuery, perQuery)
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group{
			Label: "Top Picks",
			Books: dropOwned(results, ownedTitles),
		})
	}

	return groups, nil
}

// requestSize asks for enough results to survive owned-title filtering
// without exceeding the provider's per-request maximum.
func requestSize(collectionSize int) int {
	n := resultsPerItem + collectionSize
	if n > maxResultsCap {
		return maxResultsCap
	}
	return n
}

// facetCount tracks one normalized name with its display variants.
type facetCount struct {
	variant string // longest display variant seen
	count   int
	order   int // first-seen position, for stable ranking
}

func countAuthors(collection []entities.Book) map[string]*facetCount {
	counts := make(map[string]*facetCount)
	order := 0
	for _, b := range collection {
		for _, a := range b.Authors {
			display := names.DisplayName(
				deref(a.Title), a.FirstName, deref(a.MiddleName), deref(a.LastName), deref(a.Alias),
			)
			order = bump(counts, display, order)
		}
	}
	return counts
}

func countGenres(collection []entities.Book) map[string]*facetCount {
	counts := make(map[string]*facetCount)
	order := 0
	for _, b := range collection {
		for _, g := range b.Genres {
			order = bump(counts, g.Name, order)
		}
	}
	return counts
}

func bump(counts map[string]*facetCount, variant string, order int) int {
	key := normalizeKey(variant)
	if key == "" {
		return order
	}
	fc, ok := counts[key]
	if !ok {
		counts[key] = &facetCount{variant: variant, count: 1, order: order}
		return order + 1
	}
	fc.count++
	// Ties on the normalization key keep the longest observed variant.
	if len(variant) > len(fc.variant) {
		fc.variant = variant
	}
	return order
}

// topVariants ranks facets by frequency (first seen wins ties) and
// returns the display variants of the top three.
func topVariants(counts map[string]*facetCount) []string {
	facets := make([]*facetCount, 0, len(counts))
	for _, fc := range counts {
		facets = append(facets, fc)
	}
	sort.SliceStable(facets, func(i, j int) bool {
		if facets[i].count != facets[j].count {
			return facets[i].count > facets[j].count
		}
		return facets[i].order < facets[j].order
	})
	if len(facets) > topFacets {
		facets = facets[:topFacets]
	}
	out := make([]string, len(facets))
	for i, fc := range facets {
		out[i] = fc.variant
	}
	return out
}

func dropOwned(results []metadata.BookResult, ownedTitles map[string]bool) []metadata.BookResult {
	out := make([]metadata.BookResult, 0, len(results))
	for _, r := range results {
		if ownedTitles[strings.ToLower(r.Title)] {
			continue
		}
		out = append(out, r)
		if len(out) == resultsPerItem {
			break
		}
	}
	return out
}

// normalizeKey lowercases and strips everything non-alphanumeric, so
// "J.R.R. Tolkien" and "JRR Tolkien" count as the same facet.
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
