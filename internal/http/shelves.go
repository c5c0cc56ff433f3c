package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/database/shelves"
	"github.com/ivanzak/bookden/internal/entities"
)

// ShelvesController handles shelf management endpoints.
type ShelvesController struct {
	shelves *shelves.Repository
	books   *books.Repository
}

// NewShelvesController creates a new ShelvesController.
func NewShelvesController(repo *shelves.Repository, bookRepo *books.Repository) *ShelvesController {
	return &ShelvesController{
		shelves: repo,
		books:   bookRepo,
	}
}

// List returns all shelves with their book counts.
// GET /api/shelves
func (sc *ShelvesController) List(c *gin.Context) {
	list, err := sc.shelves.List()
	if err != nil {
		respondInternalError(c, err, "list shelves")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shelves": list, "count": len(list)})
}

// Get returns one shelf with its book count.
// GET /api/shelves/:id
func (sc *ShelvesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get shelf")
		return
	}
	if shelf == nil {
		respondNotFound(c, "shelf")
		return
	}

	c.JSON(http.StatusOK, shelf)
}

// Create adds a new shelf.
// POST /api/shelves
func (sc *ShelvesController) Create(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	shelf, err := sc.shelves.Create(req.Name)
	if err != nil {
		if errors.Is(err, shelves.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create shelf")
		return
	}

	respondCreated(c, shelf)
}

// Rename changes a shelf's name.
// PATCH /api/shelves/:id
func (sc *ShelvesController) Rename(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	if err := sc.shelves.Rename(id, req.Name); err != nil {
		if errors.Is(err, shelves.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "rename shelf")
		return
	}

	respondSuccess(c, "shelf renamed")
}

// Delete removes a shelf and its book links. The books stay.
// DELETE /api/shelves/:id
func (sc *ShelvesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.shelves.Delete(id); err != nil {
		respondInternalError(c, err, "delete shelf")
		return
	}

	respondSuccess(c, "shelf deleted")
}

// Books returns the shelf's books in the order they were added.
// GET /api/shelves/:id/books
func (sc *ShelvesController) Books(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get shelf")
		return
	}
	if shelf == nil {
		respondNotFound(c, "shelf")
		return
	}

	ids, err := sc.shelves.BookIDs(id)
	if err != nil {
		respondInternalError(c, err, "list shelf books")
		return
	}

	shelfBooks := make([]entities.Book, 0, len(ids))
	for _, bookID := range ids {
		book, err := sc.books.GetByID(bookID)
		if err != nil {
			respondInternalError(c, err, "hydrate shelf book")
			return
		}
		if book != nil {
			shelfBooks = append(shelfBooks, *book)
		}
	}

	c.JSON(http.StatusOK, gin.H{"shelf": shelf, "books": shelfBooks, "count": len(shelfBooks)})
}

// AddBook places a book on the shelf. Adding it twice is a no-op.
// POST /api/shelves/:id/books/:bookId
func (sc *ShelvesController) AddBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get shelf")
		return
	}
	if shelf == nil {
		respondNotFound(c, "shelf")
		return
	}

	book, err := sc.books.GetByID(bookID)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	if err := sc.shelves.AddBook(id, bookID); err != nil {
		respondInternalError(c, err, "add book to shelf")
		return
	}

	respondSuccess(c, "book added to shelf")
}

// RemoveBook takes a book off the shelf.
// DELETE /api/shelves/:id/books/:bookId
func (sc *ShelvesController) RemoveBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := sc.shelves.RemoveBook(id, bookID); err != nil {
		respondInternalError(c, err, "remove book from shelf")
		return
	}

	respondSuccess(c, "book removed from shelf")
}
