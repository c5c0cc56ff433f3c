// Package publishers provides database operations for publisher rows.
package publishers

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ivanzak/bookden/internal/entities"
)

// ErrEmptyName is returned when a find-or-create name is blank after trimming.
var ErrEmptyName = errors.New("publisher name must not be empty")

// Repository handles all publisher database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new publishers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateByName resolves a publisher name case-insensitively, creating
// a row when no match exists. Lookup failures are propagated.
func (r *Repository) GetOrCreateByName(name string) (*entities.Publisher, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	var publisher entities.Publisher
	err := r.db.Where("LOWER(name) = LOWER(?)", trimmed).First(&publisher).Error
	if err == nil {
		return &publisher, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("publisher lookup failed: %w", err)
	}

	publisher = entities.Publisher{Name: trimmed}
	if err := r.db.Create(&publisher).Error; err != nil {
		return nil, fmt.Errorf("failed to create publisher %q: %w", trimmed, err)
	}
	return &publisher, nil
}

// List retrieves all publishers ordered by name.
func (r *Repository) List() ([]entities.Publisher, error) {
	var rows []entities.Publisher
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}
