package http

import (
	"github.com/ivanzak/bookden/internal/auth"
	"github.com/ivanzak/bookden/internal/config"
	"github.com/ivanzak/bookden/internal/covers"
	"github.com/ivanzak/bookden/internal/database"
	"github.com/ivanzak/bookden/internal/database/authors"
	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/database/categories"
	"github.com/ivanzak/bookden/internal/database/genres"
	"github.com/ivanzak/bookden/internal/database/library"
	"github.com/ivanzak/bookden/internal/database/publishers"
	"github.com/ivanzak/bookden/internal/database/series"
	"github.com/ivanzak/bookden/internal/database/shelves"
	"github.com/ivanzak/bookden/internal/metadata"
	"github.com/ivanzak/bookden/internal/recommendations"
	"github.com/ivanzak/bookden/internal/scheduler"
	"github.com/ivanzak/bookden/internal/tasks"
	"github.com/ivanzak/bookden/internal/transfer"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router. This replaces a long parameter list in
// NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Books      *books.Repository
	Authors    *authors.Repository
	Genres     *genres.Repository
	Publishers *publishers.Repository
	Series     *series.Repository
	Categories *categories.Repository
	Shelves    *shelves.Repository
	Library    *library.Repository

	// Import/export
	Exporter *transfer.Exporter
	Importer *transfer.Importer

	// Recommendations (optional)
	Recommender *recommendations.Composer

	// Metadata enrichment (optional)
	MetadataEnricher *metadata.Enricher

	// Cover caching (optional)
	CoverCache *covers.Cache

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Link repair scheduler (optional)
	LinkRepair *scheduler.LinkRepairScheduler

	// Authentication
	AuthConfig     config.Auth
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
