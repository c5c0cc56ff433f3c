package transfer

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/entities"
)

func setupTestDB(t *testing.T) (*books.Repository, func()) {
	dbPath := "./test_transfer_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookAuthor{},
		&entities.BookGenre{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return books.NewRepository(db), cleanup
}

func strPtr(s string) *string { return &s }

func TestImportJSON(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	payload := `[
		{"title": "Dune", "authors": ["Frank Herbert"], "genres": "Sci-Fi; Classics", "year": 1965, "isbn": "9780441013593"},
		{"title": "The Hobbit", "authors": "J.R.R. Tolkien", "pages": "310"},
		{"authors": ["Anonymous"]}
	]`

	importer := NewImporter(repo)
	summary, err := importer.ImportJSON(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Created)
	assert.Empty(t, summary.Errors)

	rows, err := repo.List(books.ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byTitle := map[string]entities.Book{}
	for _, b := range rows {
		byTitle[b.Title] = b
	}

	dune := byTitle["Dune"]
	assert.Len(t, dune.Authors, 1)
	assert.Len(t, dune.Genres, 2)
	require.NotNil(t, dune.YearOfPublishing)
	assert.Equal(t, 1965, *dune.YearOfPublishing)

	hobbit := byTitle["The Hobbit"]
	require.NotNil(t, hobbit.Pages)
	assert.Equal(t, 310, *hobbit.Pages)

	// Missing title falls back to the default.
	_, ok := byTitle[DefaultTitle]
	assert.True(t, ok)
}

func TestImportJSON_DuplicateISBNSkipped(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(books.CreateInput{Title: "Dune", ISBN: strPtr("9780441013593")})
	require.NoError(t, err)

	payload := `[{"title": "Dune copy", "isbn": "9780441013593"}]`
	summary, err := NewImporter(repo).ImportJSON(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Zero(t, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
}

func TestImportJSON_InvalidPayload(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewImporter(repo).ImportJSON(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestImportCSV_HeaderIndexed(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Shuffled column order: lookup is by header name.
	payload := "authors,title,year,genres\n" +
		"Frank Herbert,Dune,1965,Sci-Fi\n" +
		"J.R.R. Tolkien; Christopher Tolkien,The Silmarillion,,Fantasy\n"

	summary, err := NewImporter(repo).ImportCSV(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)

	rows, err := repo.List(books.ListOptions{Search: "Silmarillion"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Authors, 2)
}

func TestSummary_MessagesAreCapped(t *testing.T) {
	s := &Summary{Errors: []RowError{
		{Row: 1, Message: "a"},
		{Row: 2, Message: "b"},
		{Row: 3, Message: "c"},
		{Row: 4, Message: "d"},
		{Row: 5, Message: "e"},
	}}

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "row 1: a", msgs[0])
	assert.Equal(t, "... and 2 more", msgs[3])
}

func TestExportCSV_Escaping(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(books.CreateInput{Title: `He said, "Go"`})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(repo).ExportCSV(&buf))

	assert.Contains(t, buf.String(), `"He said, ""Go"""`)

	// And it parses back to the original string.
	summary, err := NewImporter(repo).ImportCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	rows, err := repo.List(books.ListOptions{Search: `He said, "Go"`})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRoundTripJSON(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(books.CreateInput{
		Title:   "Dune",
		ISBN:    strPtr("9780441013593"),
		Authors: []string{"Frank Herbert"},
		Genres:  []string{"Sci-Fi"},
	})
	require.NoError(t, err)
	_, err = repo.Create(books.CreateInput{
		Title:   "Good Omens",
		Authors: []string{"Terry Pratchett", "Neil Gaiman"},
		Genres:  []string{"Fantasy", "Comedy"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(repo).ExportJSON(&buf))

	// Import into a fresh database.
	repo2, cleanup2 := setupTestDB2(t)
	defer cleanup2()

	summary, err := NewImporter(repo2).ImportJSON(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)

	original, err := repo.List(books.ListOptions{})
	require.NoError(t, err)
	imported, err := repo2.List(books.ListOptions{})
	require.NoError(t, err)
	require.Len(t, imported, len(original))

	for i := range original {
		assert.Equal(t, original[i].Title, imported[i].Title)
		assert.Equal(t, original[i].ISBN, imported[i].ISBN)
		assert.ElementsMatch(t, authorFirstNames(original[i]), authorFirstNames(imported[i]))
		assert.ElementsMatch(t, genreNames(original[i]), genreNames(imported[i]))
	}
}

func setupTestDB2(t *testing.T) (*books.Repository, func()) {
	dbPath := "./test_transfer2_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookAuthor{},
		&entities.BookGenre{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return books.NewRepository(db), cleanup
}

func authorFirstNames(b entities.Book) []string {
	out := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		out[i] = a.FirstName
	}
	return out
}

func genreNames(b entities.Book) []string {
	out := make([]string, len(b.Genres))
	for i, g := range b.Genres {
		out[i] = g.Name
	}
	return out
}
