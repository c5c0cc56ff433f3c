// Package transfer converts between hydrated books and the two flat
// interchange formats (JSON array, CSV with a header row), both ways.
package transfer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/entities"
	"github.com/ivanzak/bookden/internal/names"
)

// ExportLimit caps how many books a single export fetches.
const ExportLimit = 1000

var csvHeader = []string{
	"id", "title", "authors", "genres", "year", "isbn", "pages",
	"status", "notes", "cover_url",
}

// Exporter serializes the library.
type Exporter struct {
	books *books.Repository
}

// NewExporter creates a new exporter over the books repository.
func NewExporter(repo *books.Repository) *Exporter {
	return &Exporter{books: repo}
}

// ExportJSON writes up to ExportLimit books as a pretty-printed JSON
// array of flat records.
func (e *Exporter) ExportJSON(w io.Writer) error {
	rows, err := e.books.List(books.ListOptions{Limit: ExportLimit})
	if err != nil {
		return fmt.Errorf("failed to fetch books for export: %w", err)
	}

	records := make([]exportRecord, len(rows))
	for i := range rows {
		records[i] = toExportRecord(&rows[i])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ExportCSV writes up to ExportLimit books as header-first CSV. Fields
// containing commas, quotes or newlines come out quoted with internal
// quotes doubled, per the csv package.
func (e *Exporter) ExportCSV(w io.Writer) error {
	rows, err := e.books.List(books.ListOptions{Limit: ExportLimit})
	if err != nil {
		return fmt.Errorf("failed to fetch books for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range rows {
		rec := toExportRecord(&rows[i])
		row := []string{
			strconv.FormatUint(uint64(rec.ID), 10),
			rec.Title,
			strings.Join(rec.Authors, "; "),
			strings.Join(rec.Genres, "; "),
			formatOptionalInt(rec.Year),
			rec.ISBN,
			formatOptionalInt(rec.Pages),
			rec.Status,
			rec.Notes,
			rec.CoverURL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type exportRecord struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Genres   []string `json:"genres"`
	Year     *int     `json:"year"`
	ISBN     string   `json:"isbn"`
	Pages    *int     `json:"pages"`
	Status   string   `json:"status"`
	Notes    string   `json:"notes"`
	CoverURL string   `json:"cover_url"`
}

func toExportRecord(b *entities.Book) exportRecord {
	authorNames := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		authorNames[i] = names.DisplayName(
			deref(a.Title), a.FirstName, deref(a.MiddleName), deref(a.LastName), deref(a.Alias),
		)
	}
	genreNames := make([]string, len(b.Genres))
	for i, g := range b.Genres {
		genreNames[i] = g.Name
	}
	return exportRecord{
		ID:       b.ID,
		Title:    b.Title,
		Authors:  authorNames,
		Genres:   genreNames,
		Year:     b.YearOfPublishing,
		ISBN:     deref(b.ISBN),
		Pages:    b.Pages,
		Status:   string(b.Status),
		Notes:    deref(b.Notes),
		CoverURL: deref(b.CoverURL),
	}
}

func formatOptionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
