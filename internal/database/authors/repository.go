// Package authors provides database operations for author rows,
// including the find-or-create resolution used by book synchronization.
package authors

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ivanzak/bookden/internal/entities"
	"github.com/ivanzak/bookden/internal/names"
)

// ErrEmptyName is returned when a find-or-create name is blank after trimming.
var ErrEmptyName = errors.New("author name must not be empty")

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateByName resolves a free-text full name to an author row,
// creating one when no match exists.
//
// Matching is case-insensitive against the parsed first/middle/last
// components, with an extra check against the stored alias. When several
// rows match, the first in result order wins. Lookup failures are
// propagated, not treated as "not found".
func (r *Repository) GetOrCreateByName(fullName string) (*entities.Author, error) {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	parts := names.ParseFullName(trimmed)

	var candidates []entities.Author
	err := r.db.
		Where("LOWER(first_name) = LOWER(?) OR LOWER(alias) = LOWER(?)", parts.FirstName, trimmed).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("author lookup failed: %w", err)
	}

	for i := range candidates {
		if matchesParts(&candidates[i], parts) || matchesAlias(&candidates[i], trimmed) {
			return &candidates[i], nil
		}
	}

	author := &entities.Author{FirstName: parts.FirstName}
	if parts.MiddleName != "" {
		author.MiddleName = &parts.MiddleName
	}
	if parts.LastName != "" {
		author.LastName = &parts.LastName
	}
	if err := r.db.Create(author).Error; err != nil {
		return nil, fmt.Errorf("failed to create author %q: %w", trimmed, err)
	}
	return author, nil
}

// GetByID retrieves an author by ID, nil when absent.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetByIDs retrieves the authors for a set of IDs, in ID order.
func (r *Repository) GetByIDs(ids []uint) ([]entities.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []entities.Author
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&rows).Error
	return rows, err
}

// List retrieves all authors ordered by first name.
func (r *Repository) List() ([]entities.Author, error) {
	var rows []entities.Author
	err := r.db.Order("first_name ASC").Find(&rows).Error
	return rows, err
}

// Create inserts an author row as-is.
func (r *Repository) Create(author *entities.Author) error {
	if strings.TrimSpace(author.FirstName) == "" {
		return ErrEmptyName
	}
	return r.db.Create(author).Error
}

func matchesParts(a *entities.Author, parts names.NameParts) bool {
	return strings.EqualFold(a.FirstName, parts.FirstName) &&
		strings.EqualFold(deref(a.MiddleName), parts.MiddleName) &&
		strings.EqualFold(deref(a.LastName), parts.LastName)
}

func matchesAlias(a *entities.Author, fullName string) bool {
	return a.Alias != nil && strings.EqualFold(*a.Alias, fullName)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
