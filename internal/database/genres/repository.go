// Package genres provides database operations for genre rows.
package genres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ivanzak/bookden/internal/entities"
)

// ErrEmptyName is returned when a find-or-create name is blank after trimming.
var ErrEmptyName = errors.New("genre name must not be empty")

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateByName resolves a genre name case-insensitively, creating a
// row when no match exists. Lookup failures are propagated.
func (r *Repository) GetOrCreateByName(name string) (*entities.Genre, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	var genre entities.Genre
	err := r.db.Where("LOWER(name) = LOWER(?)", trimmed).First(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("genre lookup failed: %w", err)
	}

	genre = entities.Genre{Name: trimmed}
	if err := r.db.Create(&genre).Error; err != nil {
		return nil, fmt.Errorf("failed to create genre %q: %w", trimmed, err)
	}
	return &genre, nil
}

// GetByIDs retrieves the genres for a set of IDs, in ID order.
func (r *Repository) GetByIDs(ids []uint) ([]entities.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []entities.Genre
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&rows).Error
	return rows, err
}

// List retrieves all genres ordered by name.
func (r *Repository) List() ([]entities.Genre, error) {
	var rows []entities.Genre
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}
