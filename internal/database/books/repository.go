// Package books implements the book synchronization logic: row CRUD plus
// reconciliation of the many-to-many author and genre links, always
// returning hydrated views (row + resolved authors + resolved genres).
package books

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ivanzak/bookden/internal/database/authors"
	"github.com/ivanzak/bookden/internal/database/genres"
	"github.com/ivanzak/bookden/internal/entities"
)

var (
	// ErrTitleRequired is returned by Create when the title is empty.
	ErrTitleRequired = errors.New("book title is required")
	// ErrInvalidID is returned by Update when no book ID is given.
	ErrInvalidID = errors.New("book id is required")
	// ErrDuplicateISBN signals a uniqueness violation on the ISBN column,
	// so callers can attribute the failure to that field.
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")
)

// Repository handles book rows and their author/genre links.
type Repository struct {
	db      *gorm.DB
	authors *authors.Repository
	genres  *genres.Repository
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:      db,
		authors: authors.NewRepository(db),
		genres:  genres.NewRepository(db),
	}
}

// CreateInput carries the fields accepted by Create. Nil pointers are
// stored as NULL; author and genre names are resolved via find-or-create.
type CreateInput struct {
	Title            string
	YearOfPublishing *int
	ISBN             *string
	Pages            *int
	Notes            *string
	CoverURL         *string
	Status           entities.ReadingStatus
	PublisherID      *uint
	SeriesID         *uint
	CategoryID       *uint
	Authors          []string
	Genres           []string
}

// Patch carries a partial update. A nil pointer leaves the column
// untouched; a pointer to the zero value clears a nullable column.
// Nil Authors/Genres skip link reconciliation entirely; an empty,
// non-nil slice removes every link.
type Patch struct {
	Title            *string
	YearOfPublishing *int
	ISBN             *string
	Pages            *int
	Notes            *string
	CoverURL         *string
	Status           *entities.ReadingStatus
	PublisherID      *uint
	SeriesID         *uint
	CategoryID       *uint
	Authors          *[]string
	Genres           *[]string
}

// ListOptions bounds and filters a listing. Filters apply in memory to
// the fetched page only, never to the full table.
type ListOptions struct {
	Search string // substring match on title
	Author string // substring match on any linked author's name
	Genre  string // substring match on any linked genre's name
	Year   *int   // exact match on year of publishing
	Limit  int    // defaults to 100
	Offset int
}

// DefaultListLimit caps a single listing fetch.
const DefaultListLimit = 100

// DefaultRelatedLimit caps a RelatedByGenres fetch.
const DefaultRelatedLimit = 10

// Create inserts a book row, links its authors and genres, and returns
// the hydrated result.
//
// The insert is schema-tolerant: when the first attempt fails with an
// unknown-column error, the optional isbn/pages columns are dropped and
// the insert retried once, so older databases missing those columns keep
// working. Link insertion ignores duplicate-link conflicts.
func (r *Repository) Create(input CreateInput) (*entities.Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = entities.StatusUnread
	}

	book := entities.Book{
		Title:            input.Title,
		YearOfPublishing: input.YearOfPublishing,
		Notes:            input.Notes,
		CoverURL:         input.CoverURL,
		Status:           status,
		PublisherID:      input.PublisherID,
		SeriesID:         input.SeriesID,
		CategoryID:       input.CategoryID,
	}

	columns := []string{
		"title", "year_of_publishing", "notes", "cover_url", "status",
		"publisher_id", "series_id", "category_id", "created_at", "updated_at",
	}
	// ISBN and pages go in only when set: degraded schemas may lack the
	// columns entirely, and empty values must not occupy the unique index.
	if input.ISBN != nil && *input.ISBN != "" {
		book.ISBN = input.ISBN
		columns = append(columns, "isbn")
	}
	if input.Pages != nil && *input.Pages != 0 {
		book.Pages = input.Pages
		columns = append(columns, "pages")
	}

	err := r.db.Select(columns).Create(&book).Error
	if err != nil && isDuplicateISBNErr(err) {
		return nil, ErrDuplicateISBN
	}
	if err != nil && isUnknownColumnErr(err) {
		book.ISBN = nil
		book.Pages = nil
		err = r.db.Select(withoutOptionalColumns(columns)).Create(&book).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	for _, name := range input.Authors {
		author, err := r.authors.GetOrCreateByName(name)
		if err != nil {
			return nil, err
		}
		if err := r.linkAuthor(book.ID, author.ID); err != nil {
			return nil, err
		}
	}
	for _, name := range input.Genres {
		genre, err := r.genres.GetOrCreateByName(name)
		if err != nil {
			return nil, err
		}
		if err := r.linkGenre(book.ID, genre.ID); err != nil {
			return nil, err
		}
	}

	return r.GetByID(book.ID)
}

// Update applies a partial update and reconciles links for any supplied
// author or genre list, then returns the hydrated book.
//
// The row update and the two reconciliations are independent steps with
// no transaction across them; reconciliation itself is idempotent, so a
// retry after partial failure converges.
func (r *Repository) Update(id uint, patch Patch) (*entities.Book, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}

	updates := patchColumns(patch)
	if len(updates) > 0 {
		err := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
		if err != nil && isDuplicateISBNErr(err) {
			return nil, ErrDuplicateISBN
		}
		// Unknown-column failures are tolerated so the scalar update
		// degrades the same way Create does on older schemas.
		if err != nil && !isUnknownColumnErr(err) {
			return nil, fmt.Errorf("failed to update book %d: %w", id, err)
		}
	}

	if patch.Authors != nil {
		desired := make([]uint, 0, len(*patch.Authors))
		for _, name := range *patch.Authors {
			author, err := r.authors.GetOrCreateByName(name)
			if err != nil {
				return nil, err
			}
			desired = append(desired, author.ID)
		}
		if err := r.reconcileAuthors(id, desired); err != nil {
			return nil, err
		}
	}
	if patch.Genres != nil {
		desired := make([]uint, 0, len(*patch.Genres))
		for _, name := range *patch.Genres {
			genre, err := r.genres.GetOrCreateByName(name)
			if err != nil {
				return nil, err
			}
			desired = append(desired, genre.ID)
		}
		if err := r.reconcileGenres(id, desired); err != nil {
			return nil, err
		}
	}

	return r.GetByID(id)
}

// Delete removes the book's author links, genre links, and finally the
// row itself, as three independent calls with no rollback. It returns
// the deleted row's data, or nil when the book did not exist.
func (r *Repository) Delete(id uint) (*entities.Book, error) {
	if err := r.db.Where("book_id = ?", id).Delete(&entities.BookAuthor{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete author links for book %d: %w", id, err)
	}
	if err := r.db.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete genre links for book %d: %w", id, err)
	}

	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Delete(&entities.Book{}, id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	return &book, nil
}

// GetByID retrieves a hydrated book, nil when absent. Hydration is two
// extra queries per link table on every call; nothing is cached.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	authorIDs, err := r.linkedAuthorIDs(id)
	if err != nil {
		return nil, err
	}
	book.Authors, err = r.authors.GetByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	genreIDs, err := r.linkedGenreIDs(id)
	if err != nil {
		return nil, err
	}
	book.Genres, err = r.genres.GetByIDs(genreIDs)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// List fetches up to Limit rows ordered by title, hydrates them with one
// batched IN-query per link table, then applies the filters in memory.
// Filters therefore only ever see the fetched page.
func (r *Repository) List(opts ListOptions) ([]entities.Book, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []entities.Book
	query := r.db.Order("title ASC").Limit(limit)
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	if err := r.hydrateBatch(rows); err != nil {
		return nil, err
	}

	return filterBooks(rows, opts), nil
}

// FindByISBN retrieves a book row by exact ISBN, nil when absent.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Count returns the number of book rows.
func (r *Repository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entities.Book{}).Count(&n).Error
	return n, err
}

// AllIDs returns the IDs of every book, ordered by ID.
func (r *Repository) AllIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.Book{}).Order("id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list book ids: %w", err)
	}
	return ids, nil
}

// DeleteOrphanLinks removes link rows whose book, author or genre no
// longer exists. Multi-step writes are not transactional, so orphans can
// appear after a partially failed delete; this repairs them.
func (r *Repository) DeleteOrphanLinks() (int64, error) {
	var total int64

	result := r.db.Exec(`
		DELETE FROM book_authors
		WHERE book_id NOT IN (SELECT id FROM books)
		OR author_id NOT IN (SELECT id FROM authors)
	`)
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	result = r.db.Exec(`
		DELETE FROM book_genres
		WHERE book_id NOT IN (SELECT id FROM books)
		OR genre_id NOT IN (SELECT id FROM genres)
	`)
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	result = r.db.Exec(`
		DELETE FROM shelf_books
		WHERE book_id NOT IN (SELECT id FROM books)
		OR shelf_id NOT IN (SELECT id FROM shelves)
	`)
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	return total, nil
}

// RelatedByGenres returns up to limit hydrated books that share at least
// one genre with the given book, most shared genres first. Ties break on
// book ID so the ordering is stable.
func (r *Repository) RelatedByGenres(bookID uint, limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	var ids []uint
	err := r.db.Raw(`
		SELECT bg.book_id
		FROM book_genres bg
		WHERE bg.genre_id IN (SELECT genre_id FROM book_genres WHERE book_id = ?)
		AND bg.book_id != ?
		GROUP BY bg.book_id
		ORDER BY COUNT(*) DESC, bg.book_id ASC
		LIMIT ?
	`, bookID, bookID, limit).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find related books for %d: %w", bookID, err)
	}
	if len(ids) == 0 {
		return []entities.Book{}, nil
	}

	var rows []entities.Book
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	// Find does not preserve the overlap ordering.
	byID := make(map[uint]entities.Book, len(rows))
	for _, b := range rows {
		byID[b.ID] = b
	}
	ordered := make([]entities.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}

	if err := r.hydrateBatch(ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

func (r *Repository) hydrateBatch(rows []entities.Book) error {
	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var authorLinks []entities.BookAuthor
	if err := r.db.Where("book_id IN ?", ids).Find(&authorLinks).Error; err != nil {
		return err
	}
	var genreLinks []entities.BookGenre
	if err := r.db.Where("book_id IN ?", ids).Find(&genreLinks).Error; err != nil {
		return err
	}

	authorIDs := make([]uint, 0, len(authorLinks))
	for _, l := range authorLinks {
		authorIDs = append(authorIDs, l.AuthorID)
	}
	genreIDs := make([]uint, 0, len(genreLinks))
	for _, l := range genreLinks {
		genreIDs = append(genreIDs, l.GenreID)
	}

	authorRows, err := r.authors.GetByIDs(uniqueIDs(authorIDs))
	if err != nil {
		return err
	}
	genreRows, err := r.genres.GetByIDs(uniqueIDs(genreIDs))
	if err != nil {
		return err
	}

	authorsByID := make(map[uint]entities.Author, len(authorRows))
	for _, a := range authorRows {
		authorsByID[a.ID] = a
	}
	genresByID := make(map[uint]entities.Genre, len(genreRows))
	for _, g := range genreRows {
		genresByID[g.ID] = g
	}

	rowIndex := make(map[uint]int, len(rows))
	for i := range rows {
		rowIndex[rows[i].ID] = i
	}
	for _, l := range authorLinks {
		if a, ok := authorsByID[l.AuthorID]; ok {
			i := rowIndex[l.BookID]
			rows[i].Authors = append(rows[i].Authors, a)
		}
	}
	for _, l := range genreLinks {
		if g, ok := genresByID[l.GenreID]; ok {
			i := rowIndex[l.BookID]
			rows[i].Genres = append(rows[i].Genres, g)
		}
	}
	return nil
}

func (r *Repository) linkAuthor(bookID, authorID uint) error {
	link := entities.BookAuthor{BookID: bookID, AuthorID: authorID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *Repository) linkGenre(bookID, genreID uint) error {
	link := entities.BookGenre{BookID: bookID, GenreID: genreID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *Repository) linkedAuthorIDs(bookID uint) ([]uint, error) {
	var links []entities.BookAuthor
	if err := r.db.Where("book_id = ?", bookID).Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(links))
	for i, l := range links {
		ids[i] = l.AuthorID
	}
	return ids, nil
}

func (r *Repository) linkedGenreIDs(bookID uint) ([]uint, error) {
	var links []entities.BookGenre
	if err := r.db.Where("book_id = ?", bookID).Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(links))
	for i, l := range links {
		ids[i] = l.GenreID
	}
	return ids, nil
}

// reconcileAuthors converges the linked-author set to the desired set by
// inserting missing links and deleting stale ones. Re-running with the
// same desired set is a no-op.
func (r *Repository) reconcileAuthors(bookID uint, desired []uint) error {
	current, err := r.linkedAuthorIDs(bookID)
	if err != nil {
		return err
	}
	toAdd, toRemove := setDifference(desired, current)
	for _, authorID := range toAdd {
		if err := r.linkAuthor(bookID, authorID); err != nil {
			return err
		}
	}
	if len(toRemove) > 0 {
		err := r.db.Where("book_id = ? AND author_id IN ?", bookID, toRemove).
			Delete(&entities.BookAuthor{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) reconcileGenres(bookID uint, desired []uint) error {
	current, err := r.linkedGenreIDs(bookID)
	if err != nil {
		return err
	}
	toAdd, toRemove := setDifference(desired, current)
	for _, genreID := range toAdd {
		if err := r.linkGenre(bookID, genreID); err != nil {
			return err
		}
	}
	if len(toRemove) > 0 {
		err := r.db.Where("book_id = ? AND genre_id IN ?", bookID, toRemove).
			Delete(&entities.BookGenre{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func patchColumns(patch Patch) map[string]interface{} {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.YearOfPublishing != nil {
		updates["year_of_publishing"] = nullableInt(patch.YearOfPublishing)
	}
	if patch.ISBN != nil {
		updates["isbn"] = nullableString(patch.ISBN)
	}
	if patch.Pages != nil {
		updates["pages"] = nullableInt(patch.Pages)
	}
	if patch.Notes != nil {
		updates["notes"] = nullableString(patch.Notes)
	}
	if patch.CoverURL != nil {
		updates["cover_url"] = nullableString(patch.CoverURL)
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.PublisherID != nil {
		updates["publisher_id"] = nullableUint(patch.PublisherID)
	}
	if patch.SeriesID != nil {
		updates["series_id"] = nullableUint(patch.SeriesID)
	}
	if patch.CategoryID != nil {
		updates["category_id"] = nullableUint(patch.CategoryID)
	}
	return updates
}

// Pointer-to-zero means "clear the column".
func nullableInt(p *int) interface{} {
	if *p == 0 {
		return nil
	}
	return *p
}

func nullableString(p *string) interface{} {
	if *p == "" {
		return nil
	}
	return *p
}

func nullableUint(p *uint) interface{} {
	if *p == 0 {
		return nil
	}
	return *p
}

func filterBooks(rows []entities.Book, opts ListOptions) []entities.Book {
	filtered := make([]entities.Book, 0, len(rows))
	for _, b := range rows {
		if opts.Search != "" && !containsFold(b.Title, opts.Search) {
			continue
		}
		if opts.Author != "" && !anyAuthorMatches(b.Authors, opts.Author) {
			continue
		}
		if opts.Genre != "" && !anyGenreMatches(b.Genres, opts.Genre) {
			continue
		}
		if opts.Year != nil && (b.YearOfPublishing == nil || *b.YearOfPublishing != *opts.Year) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

func anyAuthorMatches(list []entities.Author, query string) bool {
	for _, a := range list {
		if containsFold(a.FirstName, query) {
			return true
		}
		if a.LastName != nil && containsFold(*a.LastName, query) {
			return true
		}
		if a.Alias != nil && containsFold(*a.Alias, query) {
			return true
		}
	}
	return false
}

func anyGenreMatches(list []entities.Genre, query string) bool {
	for _, g := range list {
		if containsFold(g.Name, query) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func setDifference(desired, current []uint) (toAdd, toRemove []uint) {
	desiredSet := make(map[uint]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}
	currentSet := make(map[uint]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	for _, id := range desired {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func withoutOptionalColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "isbn" || c == "pages" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isUnknownColumnErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "unknown column") ||
		strings.Contains(msg, "has no column named")
}

func isDuplicateISBNErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") && strings.Contains(msg, "isbn")
}
