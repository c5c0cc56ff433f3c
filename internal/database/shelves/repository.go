// Package shelves provides database operations for user-curated shelves.
package shelves

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ivanzak/bookden/internal/entities"
)

var (
	// ErrEmptyName is returned when a shelf name is blank after trimming.
	ErrEmptyName = errors.New("shelf name must not be empty")
	// ErrInvalidID is returned when a shelf or book ID is missing.
	ErrInvalidID = errors.New("shelf id and book id are required")
)

// Repository handles all shelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new shelf.
func (r *Repository) Create(name string) (*entities.Shelf, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}
	shelf := entities.Shelf{Name: trimmed}
	if err := r.db.Create(&shelf).Error; err != nil {
		return nil, fmt.Errorf("failed to create shelf %q: %w", trimmed, err)
	}
	return &shelf, nil
}

// GetByID retrieves a shelf with its derived book count, nil when absent.
func (r *Repository) GetByID(id uint) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.First(&shelf, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.fillCount(&shelf); err != nil {
		return nil, err
	}
	return &shelf, nil
}

// List retrieves all shelves ordered by name, each with its book count.
func (r *Repository) List() ([]entities.Shelf, error) {
	var rows []entities.Shelf
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if err := r.fillCount(&rows[i]); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Rename changes a shelf's name.
func (r *Repository) Rename(id uint, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	return r.db.Model(&entities.Shelf{}).Where("id = ?", id).Update("name", trimmed).Error
}

// Delete removes a shelf and its book links, two independent calls.
func (r *Repository) Delete(id uint) error {
	if err := r.db.Where("shelf_id = ?", id).Delete(&entities.ShelfBook{}).Error; err != nil {
		return fmt.Errorf("failed to delete links for shelf %d: %w", id, err)
	}
	return r.db.Delete(&entities.Shelf{}, id).Error
}

// AddBook links a book to a shelf. Adding an already-shelved book is a
// silent no-op.
func (r *Repository) AddBook(shelfID, bookID uint) error {
	if shelfID == 0 || bookID == 0 {
		return ErrInvalidID
	}
	link := entities.ShelfBook{ShelfID: shelfID, BookID: bookID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// RemoveBook unlinks a book from a shelf.
func (r *Repository) RemoveBook(shelfID, bookID uint) error {
	if shelfID == 0 || bookID == 0 {
		return ErrInvalidID
	}
	return r.db.Where("shelf_id = ? AND book_id = ?", shelfID, bookID).
		Delete(&entities.ShelfBook{}).Error
}

// BookIDs returns the IDs of the books on a shelf, oldest link first.
func (r *Repository) BookIDs(shelfID uint) ([]uint, error) {
	var links []entities.ShelfBook
	err := r.db.Where("shelf_id = ?", shelfID).Order("added_at ASC").Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(links))
	for i, l := range links {
		ids[i] = l.BookID
	}
	return ids, nil
}

func (r *Repository) fillCount(shelf *entities.Shelf) error {
	return r.db.Model(&entities.ShelfBook{}).
		Where("shelf_id = ?", shelf.ID).
		Count(&shelf.BookCount).Error
}
