package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/database/categories"
	"github.com/ivanzak/bookden/internal/database/publishers"
	"github.com/ivanzak/bookden/internal/database/series"
	"github.com/ivanzak/bookden/internal/entities"
	"github.com/ivanzak/bookden/internal/listing"
	"github.com/ivanzak/bookden/internal/tasks"
)

// BooksController handles the book catalog endpoints.
type BooksController struct {
	books      *books.Repository
	publishers *publishers.Repository
	series     *series.Repository
	categories *categories.Repository
	taskClient *tasks.Client
}

// NewBooksController creates a new BooksController.
func NewBooksController(repo *books.Repository, pubs *publishers.Repository, ser *series.Repository, cats *categories.Repository, taskClient *tasks.Client) *BooksController {
	return &BooksController{
		books:      repo,
		publishers: pubs,
		series:     ser,
		categories: cats,
		taskClient: taskClient,
	}
}

type bookRequest struct {
	Title            string   `json:"title"`
	Authors          []string `json:"authors"`
	Genres           []string `json:"genres"`
	YearOfPublishing *int     `json:"year_of_publishing"`
	ISBN             *string  `json:"isbn"`
	Pages            *int     `json:"pages"`
	Notes            *string  `json:"notes"`
	CoverURL         *string  `json:"cover_url"`
	Status           string   `json:"status"`
	Publisher        *string  `json:"publisher"`
	Series           *string  `json:"series"`
	Category         *string  `json:"category"`
}

type bookPatchRequest struct {
	Title            *string   `json:"title"`
	Authors          *[]string `json:"authors"`
	Genres           *[]string `json:"genres"`
	YearOfPublishing *int      `json:"year_of_publishing"`
	ISBN             *string   `json:"isbn"`
	Pages            *int      `json:"pages"`
	Notes            *string   `json:"notes"`
	CoverURL         *string   `json:"cover_url"`
	Status           *string   `json:"status"`
	Publisher        *string   `json:"publisher"`
	Series           *string   `json:"series"`
	Category         *string   `json:"category"`
}

// List returns a page of books.
// GET /api/books?search=&author=&genre=&year=&status=&sort=&limit=&offset=
//
// Search, author, genre and year narrow the fetched page in the
// repository; status filtering and sorting run on the fetched page via
// the listing composer.
func (bc *BooksController) List(c *gin.Context) {
	opts := books.ListOptions{
		Search: c.Query("search"),
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
		Limit:  parseQueryInt(c, "limit", 0),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year := parseQueryInt(c, "year", 0)
		opts.Year = &year
	}

	page, err := bc.books.List(opts)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	composer := listing.NewComposer(page)
	composer.SetFilters(listing.Filters{Status: c.Query("status")})
	if sortKey := c.Query("sort"); sortKey != "" {
		composer.SetSort(sortKey)
	} else {
		composer.SetSort(listing.SortTitleAsc)
	}
	view := composer.View()

	total, err := bc.books.Count()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = books.DefaultListLimit
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:   view,
		Total:  total,
		Limit:  limit,
		Offset: opts.Offset,
	})
}

// Get returns a single hydrated book.
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Search looks a book up by ISBN.
// GET /api/books/search?isbn=
func (bc *BooksController) Search(c *gin.Context) {
	isbn := c.Query("isbn")
	if isbn == "" {
		respondBadRequest(c, "isbn query parameter is required")
		return
	}

	book, err := bc.books.FindByISBN(isbn)
	if err != nil {
		respondInternalError(c, err, "find book by isbn")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Related returns books sharing genres with the given book, most shared
// genres first.
// GET /api/books/:id/related?limit=
func (bc *BooksController) Related(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	related, err := bc.books.RelatedByGenres(id, parseQueryInt(c, "limit", 0))
	if err != nil {
		respondInternalError(c, err, "find related books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"related": related, "count": len(related)})
}

// Create adds a book with its author and genre links.
// POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	status, ok := parseStatus(req.Status)
	if !ok {
		respondBadRequest(c, "invalid status")
		return
	}

	input := books.CreateInput{
		Title:            req.Title,
		YearOfPublishing: req.YearOfPublishing,
		ISBN:             req.ISBN,
		Pages:            req.Pages,
		Notes:            req.Notes,
		CoverURL:         req.CoverURL,
		Status:           status,
		Authors:          req.Authors,
		Genres:           req.Genres,
	}

	publisherID, err := bc.resolvePublisher(req.Publisher)
	if err != nil {
		respondInternalError(c, err, "resolve publisher")
		return
	}
	input.PublisherID = publisherID

	seriesID, err := bc.resolveSeries(req.Series)
	if err != nil {
		respondInternalError(c, err, "resolve series")
		return
	}
	input.SeriesID = seriesID

	categoryID, err := bc.resolveCategory(req.Category)
	if err != nil {
		respondInternalError(c, err, "resolve category")
		return
	}
	input.CategoryID = categoryID

	book, err := bc.books.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrTitleRequired):
			respondBadRequest(c, err.Error())
		case errors.Is(err, books.ErrDuplicateISBN):
			respondConflict(c, err.Error())
		default:
			respondInternalError(c, err, "create book")
		}
		return
	}

	respondCreated(c, book)
}

// Update applies a partial update. Omitted fields are left untouched;
// sending an empty string or zero clears a nullable field, and sending
// an empty authors/genres array removes all links of that kind.
// PATCH /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	patch := books.Patch{
		Title:            req.Title,
		YearOfPublishing: req.YearOfPublishing,
		ISBN:             req.ISBN,
		Pages:            req.Pages,
		Notes:            req.Notes,
		CoverURL:         req.CoverURL,
		Authors:          req.Authors,
		Genres:           req.Genres,
	}

	if req.Status != nil {
		status, ok := parseStatus(*req.Status)
		if !ok {
			respondBadRequest(c, "invalid status")
			return
		}
		patch.Status = &status
	}

	if req.Publisher != nil {
		publisherID, err := bc.resolvePublisher(req.Publisher)
		if err != nil {
			respondInternalError(c, err, "resolve publisher")
			return
		}
		if publisherID == nil {
			// Empty name clears the publisher.
			zero := uint(0)
			publisherID = &zero
		}
		patch.PublisherID = publisherID
	}
	if req.Series != nil {
		seriesID, err := bc.resolveSeries(req.Series)
		if err != nil {
			respondInternalError(c, err, "resolve series")
			return
		}
		if seriesID == nil {
			zero := uint(0)
			seriesID = &zero
		}
		patch.SeriesID = seriesID
	}
	if req.Category != nil {
		categoryID, err := bc.resolveCategory(req.Category)
		if err != nil {
			respondInternalError(c, err, "resolve category")
			return
		}
		if categoryID == nil {
			zero := uint(0)
			categoryID = &zero
		}
		patch.CategoryID = categoryID
	}

	book, err := bc.books.Update(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrInvalidID):
			respondBadRequest(c, err.Error())
		case errors.Is(err, books.ErrDuplicateISBN):
			respondConflict(c, err.Error())
		default:
			respondInternalError(c, err, "update book")
		}
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete removes a book and its links, returning the deleted row.
// DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.Delete(id)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Enrich queues a metadata enrichment task for the book.
// POST /api/books/:id/enrich
func (bc *BooksController) Enrich(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	if bc.taskClient == nil {
		respondBadRequest(c, "task queue is disabled")
		return
	}

	ids, err := bc.taskClient.Add(tasks.EnrichBookTask{BookID: id}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue enrichment")
		return
	}

	respondAccepted(c, "enrichment queued", gin.H{"task_id": ids[0]})
}

func (bc *BooksController) resolvePublisher(name *string) (*uint, error) {
	if name == nil || *name == "" {
		return nil, nil
	}
	publisher, err := bc.publishers.GetOrCreateByName(*name)
	if err != nil {
		return nil, err
	}
	return &publisher.ID, nil
}

func (bc *BooksController) resolveSeries(name *string) (*uint, error) {
	if name == nil || *name == "" {
		return nil, nil
	}
	s, err := bc.series.GetOrCreateByName(*name)
	if err != nil {
		return nil, err
	}
	return &s.ID, nil
}

func (bc *BooksController) resolveCategory(name *string) (*uint, error) {
	if name == nil || *name == "" {
		return nil, nil
	}
	cat, err := bc.categories.GetOrCreateByName(*name)
	if err != nil {
		return nil, err
	}
	return &cat.ID, nil
}

func parseStatus(s string) (entities.ReadingStatus, bool) {
	switch entities.ReadingStatus(s) {
	case "", entities.StatusUnread:
		return entities.StatusUnread, true
	case entities.StatusReading, entities.StatusCompleted:
		return entities.ReadingStatus(s), true
	}
	return "", false
}
