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
)

// DefaultTitle is used for records that carry no title.
const DefaultTitle = "Untitled"

// maxReportedErrors caps the error messages carried by a summary.
const maxReportedErrors = 3

// RowError describes a single failed record.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Summary reports the outcome of an import batch.
type Summary struct {
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors,omitempty"`
}

// Messages returns up to three error messages, with an ellipsis entry
// when more were collected.
func (s *Summary) Messages() []string {
	out := make([]string, 0, maxReportedErrors+1)
	for i, e := range s.Errors {
		if i == maxReportedErrors {
			out = append(out, fmt.Sprintf("... and %d more", len(s.Errors)-maxReportedErrors))
			break
		}
		out = append(out, fmt.Sprintf("row %d: %s", e.Row, e.Message))
	}
	return out
}

// Importer feeds interchange records through book creation.
type Importer struct {
	books *books.Repository
}

// NewImporter creates a new importer over the books repository.
func NewImporter(repo *books.Repository) *Importer {
	return &Importer{books: repo}
}

// importRecord tolerates the loose shapes found in exported files:
// name lists as arrays or semicolon-joined strings, numbers as numbers
// or strings.
type importRecord struct {
	Title    string   `json:"title"`
	Authors  nameList `json:"authors"`
	Genres   nameList `json:"genres"`
	Year     flexInt  `json:"year"`
	ISBN     string   `json:"isbn"`
	Pages    flexInt  `json:"pages"`
	Status   string   `json:"status"`
	Notes    string   `json:"notes"`
	CoverURL string   `json:"cover_url"`
}

// ImportJSON reads a JSON array of book-like records and creates a book
// per record. Per-record failures are collected, never aborting the batch.
func (im *Importer) ImportJSON(r io.Reader) (*Summary, error) {
	var records []importRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid JSON import file: %w", err)
	}

	summary := &Summary{}
	for i, rec := range records {
		im.importOne(summary, i+1, rec)
	}
	return summary, nil
}

// ImportCSV reads header-first CSV. Columns are located by header name,
// so column order does not matter.
func (im *Importer) ImportCSV(r io.Reader) (*Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV import file: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	summary := &Summary{}
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}

		get := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		rec := importRecord{
			Title:    get("title"),
			Authors:  splitNames(get("authors")),
			Genres:   splitNames(get("genres")),
			Year:     parseFlexInt(get("year")),
			ISBN:     get("isbn"),
			Pages:    parseFlexInt(get("pages")),
			Status:   get("status"),
			Notes:    get("notes"),
			CoverURL: get("cover_url"),
		}
		im.importOne(summary, row, rec)
	}
	return summary, nil
}

func (im *Importer) importOne(summary *Summary, row int, rec importRecord) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = DefaultTitle
	}

	// Existing ISBNs are skipped rather than duplicated.
	if rec.ISBN != "" {
		existing, err := im.books.FindByISBN(rec.ISBN)
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: row, Message: err.Error()})
			return
		}
		if existing != nil {
			summary.Skipped++
			return
		}
	}

	input := books.CreateInput{
		Title:   title,
		Authors: rec.Authors,
		Genres:  rec.Genres,
	}
	if rec.Year.set {
		year := rec.Year.value
		input.YearOfPublishing = &year
	}
	if rec.ISBN != "" {
		isbn := rec.ISBN
		input.ISBN = &isbn
	}
	if rec.Pages.set {
		pages := rec.Pages.value
		input.Pages = &pages
	}
	if rec.Notes != "" {
		notes := rec.Notes
		input.Notes = &notes
	}
	if rec.CoverURL != "" {
		coverURL := rec.CoverURL
		input.CoverURL = &coverURL
	}
	if rec.Status != "" {
		input.Status = normalizeStatus(rec.Status)
	}

	if _, err := im.books.Create(input); err != nil {
		summary.Errors = append(summary.Errors, RowError{Row: row, Message: err.Error()})
		return
	}
	summary.Created++
}

func normalizeStatus(s string) entities.ReadingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reading":
		return entities.StatusReading
	case "completed":
		return entities.StatusCompleted
	default:
		return entities.StatusUnread
	}
}

// nameList accepts either an array of strings or a single
// semicolon-joined string.
type nameList []string

func (n *nameList) UnmarshalJSON(data []byte) error {
	var asSlice []string
	if err := json.Unmarshal(data, &asSlice); err == nil {
		*n = trimNonEmpty(asSlice)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("expected string or array of strings, got %s", string(data))
	}
	*n = splitNames(asString)
	return nil
}

// flexInt accepts a JSON number, a numeric string, or null.
type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Unparseable numbers are dropped, not fatal: the record is
		// still worth importing without them.
		return nil
	}
	f.value = v
	f.set = true
	return nil
}

func parseFlexInt(s string) flexInt {
	if s == "" {
		return flexInt{}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return flexInt{}
	}
	return flexInt{value: v, set: true}
}

func splitNames(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	return trimNonEmpty(strings.Split(joined, ";"))
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
