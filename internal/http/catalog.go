package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/database/authors"
	"github.com/ivanzak/bookden/internal/database/categories"
	"github.com/ivanzak/bookden/internal/database/genres"
	"github.com/ivanzak/bookden/internal/database/publishers"
	"github.com/ivanzak/bookden/internal/database/series"
)

// CatalogController serves the supporting catalog entities: authors,
// genres, publishers, series and categories.
type CatalogController struct {
	authors    *authors.Repository
	genres     *genres.Repository
	publishers *publishers.Repository
	series     *series.Repository
	categories *categories.Repository
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(a *authors.Repository, g *genres.Repository, p *publishers.Repository, s *series.Repository, cat *categories.Repository) *CatalogController {
	return &CatalogController{
		authors:    a,
		genres:     g,
		publishers: p,
		series:     s,
		categories: cat,
	}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListAuthors returns all authors ordered by first name.
// GET /api/authors
func (cc *CatalogController) ListAuthors(c *gin.Context) {
	list, err := cc.authors.List()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": list, "count": len(list)})
}

// GetAuthor returns one author.
// GET /api/authors/:id
func (cc *CatalogController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := cc.authors.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}
	if author == nil {
		respondNotFound(c, "author")
		return
	}

	c.JSON(http.StatusOK, author)
}

// CreateAuthor finds or creates an author from a free-form name.
// POST /api/authors
func (cc *CatalogController) CreateAuthor(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author, err := cc.authors.GetOrCreateByName(req.Name)
	if err != nil {
		if errors.Is(err, authors.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create author")
		return
	}

	respondCreated(c, author)
}

// ListGenres returns all genres ordered by name.
// GET /api/genres
func (cc *CatalogController) ListGenres(c *gin.Context) {
	list, err := cc.genres.List()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": list, "count": len(list)})
}

// CreateGenre finds or creates a genre by name.
// POST /api/genres
func (cc *CatalogController) CreateGenre(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	genre, err := cc.genres.GetOrCreateByName(req.Name)
	if err != nil {
		if errors.Is(err, genres.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create genre")
		return
	}

	respondCreated(c, genre)
}

// ListPublishers returns all publishers ordered by name.
// GET /api/publishers
func (cc *CatalogController) ListPublishers(c *gin.Context) {
	list, err := cc.publishers.List()
	if err != nil {
		respondInternalError(c, err, "list publishers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"publishers": list, "count": len(list)})
}

// CreatePublisher finds or creates a publisher by name.
// POST /api/publishers
func (cc *CatalogController) CreatePublisher(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	publisher, err := cc.publishers.GetOrCreateByName(req.Name)
	if err != nil {
		if errors.Is(err, publishers.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create publisher")
		return
	}

	respondCreated(c, publisher)
}

// ListSeries returns all series ordered by name.
// GET /api/series
func (cc *CatalogController) ListSeries(c *gin.Context) {
	list, err := cc.series.List()
	if err != nil {
		respondInternalError(c, err, "list series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": list, "count": len(list)})
}

// CreateSeries finds or creates a series by name.
// POST /api/series
func (cc *CatalogController) CreateSeries(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	s, err := cc.series.GetOrCreateByName(req.Name)
	if err != nil {
		if errors.Is(err, series.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create series")
		return
	}

	respondCreated(c, s)
}

// ListCategories returns all categories ordered by name.
// GET /api/categories
func (cc *CatalogController) ListCategories(c *gin.Context) {
	list, err := cc.categories.List()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list, "count": len(list)})
}

// CreateCategory finds or creates a category by name.
// POST /api/categories
func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	cat, err := cc.categories.GetOrCreateByName(req.Name)
	if err != nil {
		if errors.Is(err, categories.ErrEmptyName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create category")
		return
	}

	respondCreated(c, cat)
}
