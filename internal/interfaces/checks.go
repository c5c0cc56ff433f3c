package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/metadata"
	"github.com/ivanzak/bookden/internal/recommendations"
	"github.com/ivanzak/bookden/internal/scheduler"
	"github.com/ivanzak/bookden/internal/tasks"
)

// =============================================================================
// Metadata Providers
// =============================================================================

// VolumeSearcher implementations
var _ metadata.VolumeSearcher = (*metadata.GoogleBooksClient)(nil)

// ISBNFinder implementations
var _ metadata.ISBNFinder = (*metadata.OpenLibraryClient)(nil)

// FacetSearcher implementations
var _ recommendations.FacetSearcher = (*metadata.GoogleBooksClient)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ metadata.BookStore = (*books.Repository)(nil)

// =============================================================================
// Background Maintenance
// =============================================================================

// BookIDLister implementations
var _ tasks.BookIDLister = (*books.Repository)(nil)

// OrphanLinksCleaner implementations
var _ tasks.OrphanLinksCleaner = (*books.Repository)(nil)

// LinkCleaner implementations
var _ scheduler.LinkCleaner = (*books.Repository)(nil)
