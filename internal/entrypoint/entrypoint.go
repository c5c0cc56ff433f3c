package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

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
	"github.com/ivanzak/bookden/internal/database/users"
	http_controllers "github.com/ivanzak/bookden/internal/http"
	"github.com/ivanzak/bookden/internal/metadata"
	"github.com/ivanzak/bookden/internal/recommendations"
	"github.com/ivanzak/bookden/internal/scheduler"
	"github.com/ivanzak/bookden/internal/tasks"
	"github.com/ivanzak/bookden/internal/transfer"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM. SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookden v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	bookRepo := books.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)
	publisherRepo := publishers.NewRepository(db.DB)
	seriesRepo := series.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	shelfRepo := shelves.NewRepository(db.DB)
	libraryRepo := library.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	// Create cover cache for locally caching book covers
	coverCacheDir := cfg.Covers.CacheDir
	if coverCacheDir == "" {
		coverCacheDir = filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	}
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
	} else {
		log.Printf("Cover cache initialized at %s", coverCacheDir)
	}

	// Metadata providers: Google Books is the primary lookup, OpenLibrary
	// backfills missing ISBNs.
	googleBooks := metadata.NewGoogleBooksClient(cfg.Metadata.GoogleBooksBaseURL, cfg.Metadata.RequestTimeout)
	openLibrary := metadata.NewOpenLibraryClient(cfg.Metadata.OpenLibraryBaseURL, cfg.Metadata.RequestTimeout)
	metadataEnricher := metadata.NewEnricher(googleBooks, openLibrary, bookRepo)

	recommender := recommendations.NewComposer(googleBooks)

	exporter := transfer.NewExporter(bookRepo)
	importer := transfer.NewImporter(bookRepo)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewEnrichBookQueue(metadataEnricher),
			tasks.NewEnrichAllBooksQueue(metadataEnricher, bookRepo),
			tasks.NewCleanupOrphanLinksQueue(bookRepo),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Nightly orphan link sweep
	linkRepair := scheduler.NewLinkRepairScheduler(bookRepo, cfg.LinkRepair)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := linkRepair.Start(schedulerCtx); err != nil {
		log.Fatalf("Failed to start link repair scheduler: %v", err)
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(userRepo, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST to /api/auth/setup to create the first account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:         db,
		Books:            bookRepo,
		Authors:          authorRepo,
		Genres:           genreRepo,
		Publishers:       publisherRepo,
		Series:           seriesRepo,
		Categories:       categoryRepo,
		Shelves:          shelfRepo,
		Library:          libraryRepo,
		Exporter:         exporter,
		Importer:         importer,
		Recommender:      recommender,
		MetadataEnricher: metadataEnricher,
		CoverCache:       coverCache,
		TaskClient:       taskClient,
		LinkRepair:       linkRepair,
		AuthConfig:       cfg.Auth,
		AuthService:      authService,
		SessionManager:   sessionManager,
		AuthMiddleware:   authMiddleware,
		CSRFSecret:       csrfSecret,
		SecureCookies:    cfg.Auth.SecureCookies,
		Version:          version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		linkRepair.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
