package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/recommendations"
)

// RecommendationsController serves reading suggestions derived from the
// catalog's most frequent authors and genres.
type RecommendationsController struct {
	recommender *recommendations.Composer
	books       *books.Repository
}

// NewRecommendationsController creates a new RecommendationsController.
func NewRecommendationsController(recommender *recommendations.Composer, bookRepo *books.Repository) *RecommendationsController {
	return &RecommendationsController{
		recommender: recommender,
		books:       bookRepo,
	}
}

// Get returns grouped recommendations.
// GET /api/recommendations
func (rc *RecommendationsController) Get(c *gin.Context) {
	collection, err := rc.books.List(books.ListOptions{})
	if err != nil {
		respondInternalError(c, err, "load collection")
		return
	}

	groups, err := rc.recommender.Recommend(c.Request.Context(), collection)
	if err != nil {
		respondInternalError(c, err, "build recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
