// Package series provides database operations for book series rows.
package series

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ivanzak/bookden/internal/entities"
)

// ErrEmptyName is returned when a find-or-create name is blank after trimming.
var ErrEmptyName = errors.New("series name must not be empty")

// Repository handles all series database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new series repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateByName resolves a series name case-insensitively, creating a
// row when no match exists. Lookup failures are propagated.
func (r *Repository) GetOrCreateByName(name string) (*entities.Series, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	var s entities.Series
	err := r.db.Where("LOWER(name) = LOWER(?)", trimmed).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("series lookup failed: %w", err)
	}

	s = entities.Series{Name: trimmed}
	if err := r.db.Create(&s).Error; err != nil {
		return nil, fmt.Errorf("failed to create series %q: %w", trimmed, err)
	}
	return &s, nil
}

// List retrieves all series ordered by name.
func (r *Repository) List() ([]entities.Series, error) {
	var rows []entities.Series
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}
