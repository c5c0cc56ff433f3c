// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Metadata Provider Interfaces
//
//   - VolumeSearcher: Primary metadata lookup by ISBN or title (internal/metadata/enricher.go)
//   - ISBNFinder: Secondary ISBN backfill (internal/metadata/enricher.go)
//   - FacetSearcher: Author/subject searches for recommendations (internal/recommendations/composer.go)
//
// ## Data Access Interfaces
//
//   - BookStore: The slice of the books repository the enricher needs (internal/metadata/enricher.go)
//
// ## Background Maintenance Interfaces
//
//   - BookIDLister: Enumerate book IDs for bulk enrichment (internal/tasks/enrich_all.go)
//   - OrphanLinksCleaner: Sweep orphaned link rows (internal/tasks/cleanup_links.go)
//   - LinkCleaner: Scheduled variant of the orphan sweep (internal/scheduler/link_repair.go)
//
// # Adding a New Metadata Provider
//
// To add a new source of book metadata:
//
//  1. Implement VolumeSearcher in internal/metadata/
//
//     type WorldCatClient struct {
//         baseURL    string
//         httpClient *http.Client
//     }
//
//     func (c *WorldCatClient) SearchByISBN(ctx context.Context, isbn string) (*BookResult, error)
//     func (c *WorldCatClient) SearchByTitle(ctx context.Context, title, author string, maxResults int) ([]BookResult, error)
//
//     var _ VolumeSearcher = (*WorldCatClient)(nil)
//
//  2. Wire it into the enricher in entrypoint.go
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., reading goals):
//
//  1. Create sub-package: internal/database/goals/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ GoalStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
