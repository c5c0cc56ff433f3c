// Package categories provides database operations for book category rows.
package categories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ivanzak/bookden/internal/entities"
)

// ErrEmptyName is returned when a find-or-create name is blank after trimming.
var ErrEmptyName = errors.New("category name must not be empty")

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateByName resolves a category name case-insensitively, creating a
// row when no match exists. Lookup failures are propagated.
func (r *Repository) GetOrCreateByName(name string) (*entities.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	var cat entities.Category
	err := r.db.Where("LOWER(name) = LOWER(?)", trimmed).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}

	cat = entities.Category{Name: trimmed}
	if err := r.db.Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", trimmed, err)
	}
	return &cat, nil
}

// List retrieves all categories ordered by name.
func (r *Repository) List() ([]entities.Category, error) {
	var rows []entities.Category
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}
