package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/covers"
	"github.com/ivanzak/bookden/internal/database/books"
)

// CoversController handles book cover requests.
type CoversController struct {
	cache *covers.Cache
	books *books.Repository
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache *covers.Cache, bookRepo *books.Repository) *CoversController {
	return &CoversController{
		cache: cache,
		books: bookRepo,
	}
}

// GetCover serves a cached book cover image.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil || book.CoverURL == nil || *book.CoverURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	// Get cached cover (fetches on a cache miss)
	cachePath, err := cc.cache.GetCover(id, *book.CoverURL)
	if err != nil || cachePath == "" {
		// Fallback: redirect to the original URL
		c.Redirect(http.StatusTemporaryRedirect, *book.CoverURL)
		return
	}

	c.File(cachePath)
}
