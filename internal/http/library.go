package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/database/library"
	"github.com/ivanzak/bookden/internal/entities"
)

// LibraryController handles the per-user library endpoints.
type LibraryController struct {
	library *library.Repository
	books   *books.Repository
}

// NewLibraryController creates a new LibraryController.
func NewLibraryController(repo *library.Repository, bookRepo *books.Repository) *LibraryController {
	return &LibraryController{
		library: repo,
		books:   bookRepo,
	}
}

type libraryEntryRequest struct {
	Status string `json:"status"`
}

type libraryPatchRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"personal_notes"`
}

// List returns the user's library entries, newest first.
// GET /api/library
func (lc *LibraryController) List(c *gin.Context) {
	entries, err := lc.library.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list library")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// Overview returns reading status counts for the user's library.
// GET /api/library/overview
func (lc *LibraryController) Overview(c *gin.Context) {
	overview, err := lc.library.GetOverview(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "library overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Add puts a book into the user's library. Adding a book that is
// already there returns the existing entry unchanged.
// POST /api/library/:bookId
func (lc *LibraryController) Add(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	book, err := lc.books.GetByID(bookID)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	var req libraryEntryRequest
	// Body is optional; an empty body means default status.
	_ = c.ShouldBindJSON(&req)

	status, ok := parseStatus(req.Status)
	if !ok {
		respondBadRequest(c, "invalid status")
		return
	}

	entry, err := lc.library.AddEntry(GetUserID(c), bookID, status)
	if err != nil {
		respondInternalError(c, err, "add library entry")
		return
	}

	respondCreated(c, entry)
}

// Get returns one library entry.
// GET /api/library/:bookId
func (lc *LibraryController) Get(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	entry, err := lc.library.GetEntry(GetUserID(c), bookID)
	if err != nil {
		respondInternalError(c, err, "get library entry")
		return
	}
	if entry == nil {
		respondNotFound(c, "library entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Update patches a library entry's status or notes. An empty notes
// string clears the notes.
// PATCH /api/library/:bookId
func (lc *LibraryController) Update(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req libraryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	var status *entities.ReadingStatus
	if req.Status != nil {
		parsed, ok := parseStatus(*req.Status)
		if !ok {
			respondBadRequest(c, "invalid status")
			return
		}
		status = &parsed
	}

	entry, err := lc.library.UpdateEntry(GetUserID(c), bookID, status, req.Notes)
	if err != nil {
		if errors.Is(err, library.ErrInvalidIDs) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update library entry")
		return
	}
	if entry == nil {
		respondNotFound(c, "library entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Remove drops a book from the user's library. The book itself stays.
// DELETE /api/library/:bookId
func (lc *LibraryController) Remove(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := lc.library.RemoveEntry(GetUserID(c), bookID); err != nil {
		respondInternalError(c, err, "remove library entry")
		return
	}

	respondSuccess(c, "library entry removed")
}
