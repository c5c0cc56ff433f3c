package metadata

import (
	"context"
	"fmt"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/entities"
	"github.com/ivanzak/bookden/internal/names"
)

// VolumeSearcher is the Google Books surface the enricher needs.
type VolumeSearcher interface {
	SearchByISBN(ctx context.Context, isbn string) (*BookResult, error)
	SearchByTitle(ctx context.Context, title, author string, maxResults int) ([]BookResult, error)
}

// ISBNFinder backfills a missing ISBN from a secondary provider.
type ISBNFinder interface {
	FindISBN(ctx context.Context, title, author string) (string, error)
}

// BookStore is the slice of the books repository the enricher needs.
type BookStore interface {
	GetByID(id uint) (*entities.Book, error)
	Update(id uint, patch books.Patch) (*entities.Book, error)
}

// EnrichmentResult reports which fields an enrichment pass filled.
type EnrichmentResult struct {
	Book          *entities.Book `json:"book"`
	FieldsUpdated []string       `json:"fields_updated"`
}

// Enricher fills a book's missing ISBN, cover, page count and year from
// the metadata providers. Present fields are never overwritten.
type Enricher struct {
	volumes VolumeSearcher
	isbns   ISBNFinder
	store   BookStore
}

// NewEnricher creates a new Enricher.
func NewEnricher(volumes VolumeSearcher, isbns ISBNFinder, store BookStore) *Enricher {
	return &Enricher{volumes: volumes, isbns: isbns, store: store}
}

// EnrichBook looks the book up by ISBN when one is present, otherwise by
// title and first author, and patches only the missing fields.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (*EnrichmentResult, error) {
	book, err := e.store.GetByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return nil, fmt.Errorf("book %d not found", bookID)
	}

	var candidate *BookResult
	if book.ISBN != nil && *book.ISBN != "" {
		candidate, err = e.volumes.SearchByISBN(ctx, *book.ISBN)
		if err != nil {
			return nil, fmt.Errorf("metadata search failed: %w", err)
		}
	}
	if candidate == nil {
		results, err := e.volumes.SearchByTitle(ctx, book.Title, firstAuthorName(book), 1)
		if err != nil {
			return nil, fmt.Errorf("metadata search failed: %w", err)
		}
		if len(results) > 0 {
			candidate = &results[0]
		}
	}
	if candidate == nil {
		return &EnrichmentResult{Book: book}, nil
	}

	patch, fields := e.buildPatch(ctx, book, candidate)
	if len(fields) == 0 {
		return &EnrichmentResult{Book: book}, nil
	}

	updated, err := e.store.Update(bookID, patch)
	if err != nil {
		return nil, fmt.Errorf("apply enrichment: %w", err)
	}
	return &EnrichmentResult{Book: updated, FieldsUpdated: fields}, nil
}

func (e *Enricher) buildPatch(ctx context.Context, book *entities.Book, candidate *BookResult) (books.Patch, []string) {
	var patch books.Patch
	var fields []string

	if isEmptyStr(book.ISBN) {
		isbn := candidate.ISBN
		if isbn == "" && e.isbns != nil {
			// Secondary provider backfill; a miss here is not fatal.
			if found, err := e.isbns.FindISBN(ctx, book.Title, firstAuthorName(book)); err == nil {
				isbn = found
			}
		}
		if isbn != "" {
			patch.ISBN = &isbn
			fields = append(fields, "isbn")
		}
	}

	if isEmptyStr(book.CoverURL) && candidate.CoverURL != "" {
		coverURL := candidate.CoverURL
		patch.CoverURL = &coverURL
		fields = append(fields, "cover_url")
	}

	if (book.Pages == nil || *book.Pages == 0) && candidate.PageCount > 0 {
		pages := candidate.PageCount
		patch.Pages = &pages
		fields = append(fields, "pages")
	}

	if (book.YearOfPublishing == nil || *book.YearOfPublishing == 0) && candidate.PublishedYear > 0 {
		year := candidate.PublishedYear
		patch.YearOfPublishing = &year
		fields = append(fields, "year_of_publishing")
	}

	return patch, fields
}

func firstAuthorName(book *entities.Book) string {
	if len(book.Authors) == 0 {
		return ""
	}
	a := book.Authors[0]
	return names.DisplayName("", a.FirstName, derefStr(a.MiddleName), derefStr(a.LastName), "")
}

func isEmptyStr(p *string) bool {
	return p == nil || *p == ""
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
