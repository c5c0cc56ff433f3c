package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ivanzak/bookden/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled.
	// CSRF must run before session so that session context is preserved.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement.
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject the default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Next()
		})
	}

	// Auth endpoints
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(router)
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Book catalog endpoints
	booksController := NewBooksController(cfg.Books, cfg.Publishers, cfg.Series, cfg.Categories, cfg.TaskClient)
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/search", booksController.Search)
	router.POST("/api/books", booksController.Create)
	router.GET("/api/books/:id", booksController.Get)
	router.PATCH("/api/books/:id", booksController.Update)
	router.DELETE("/api/books/:id", booksController.Delete)
	router.GET("/api/books/:id/related", booksController.Related)

	// Metadata enrichment endpoint
	if cfg.MetadataEnricher != nil && cfg.TaskClient != nil {
		router.POST("/api/books/:id/enrich", booksController.Enrich)
	}

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Books)
		router.GET("/api/books/:id/cover", coversController.GetCover)
	}

	// Supporting catalog endpoints
	catalogController := NewCatalogController(cfg.Authors, cfg.Genres, cfg.Publishers, cfg.Series, cfg.Categories)
	router.GET("/api/authors", catalogController.ListAuthors)
	router.GET("/api/authors/:id", catalogController.GetAuthor)
	router.POST("/api/authors", catalogController.CreateAuthor)
	router.GET("/api/genres", catalogController.ListGenres)
	router.POST("/api/genres", catalogController.CreateGenre)
	router.GET("/api/publishers", catalogController.ListPublishers)
	router.POST("/api/publishers", catalogController.CreatePublisher)
	router.GET("/api/series", catalogController.ListSeries)
	router.POST("/api/series", catalogController.CreateSeries)
	router.GET("/api/categories", catalogController.ListCategories)
	router.POST("/api/categories", catalogController.CreateCategory)

	// Shelf endpoints
	shelvesController := NewShelvesController(cfg.Shelves, cfg.Books)
	router.GET("/api/shelves", shelvesController.List)
	router.POST("/api/shelves", shelvesController.Create)
	router.GET("/api/shelves/:id", shelvesController.Get)
	router.PATCH("/api/shelves/:id", shelvesController.Rename)
	router.DELETE("/api/shelves/:id", shelvesController.Delete)
	router.GET("/api/shelves/:id/books", shelvesController.Books)
	router.POST("/api/shelves/:id/books/:bookId", shelvesController.AddBook)
	router.DELETE("/api/shelves/:id/books/:bookId", shelvesController.RemoveBook)

	// User library endpoints
	libraryController := NewLibraryController(cfg.Library, cfg.Books)
	router.GET("/api/library", libraryController.List)
	router.GET("/api/library/overview", libraryController.Overview)
	router.POST("/api/library/:bookId", libraryController.Add)
	router.GET("/api/library/:bookId", libraryController.Get)
	router.PATCH("/api/library/:bookId", libraryController.Update)
	router.DELETE("/api/library/:bookId", libraryController.Remove)

	// Import/export endpoints
	if cfg.Exporter != nil && cfg.Importer != nil {
		transferController := NewTransferController(cfg.Exporter, cfg.Importer)
		router.GET("/api/export/json", transferController.ExportJSON)
		router.GET("/api/export/csv", transferController.ExportCSV)
		router.POST("/api/import", transferController.Import)
	}

	// Recommendations endpoint
	if cfg.Recommender != nil {
		recommendationsController := NewRecommendationsController(cfg.Recommender, cfg.Books)
		router.GET("/api/recommendations", recommendationsController.Get)
	}

	// Background task endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.LinkRepair)
		router.GET("/api/tasks/link-repair", tasksController.LinkRepairStatus)
		router.GET("/api/tasks/:id", tasksController.Status)
		router.POST("/api/tasks/enrich-all", tasksController.EnrichAll)
		router.POST("/api/tasks/cleanup-links", tasksController.CleanupLinks)
	}

	return router
}
