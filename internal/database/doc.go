// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── books/           # Book CRUD with author/genre link reconciliation
//	├── authors/         # Author find-or-create and lookups
//	├── genres/          # Genre find-or-create and lookups
//	├── publishers/      # Publisher find-or-create and lookups
//	├── series/          # Series find-or-create and lookups
//	├── categories/      # Category find-or-create and lookups
//	├── shelves/         # Shelf management and shelf-book links
//	├── library/         # Per-user library entries and overview
//	└── users/           # User management
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./app.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	shelvesRepo := shelves.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetByID(123)
//
// Repositories never share transactions across sub-packages; multi-step
// operations within one repository document their own atomicity.
package database
