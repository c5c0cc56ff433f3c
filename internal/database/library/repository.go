// Package library provides database operations for per-user library
// entries: which books a user owns and their reading state.
package library

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/entities"
)

// ErrInvalidIDs is returned when a user or book ID is missing.
var ErrInvalidIDs = errors.New("user id and book id are required")

// Overview summarizes a user's library by reading status.
type Overview struct {
	Total     int64 `json:"total"`
	Unread    int64 `json:"unread"`
	Reading   int64 `json:"reading"`
	Completed int64 `json:"completed"`
}

// Repository handles all user-library database operations.
type Repository struct {
	db    *gorm.DB
	books *books.Repository
}

// NewRepository creates a new library repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, books: books.NewRepository(db)}
}

// AddEntry records a book in a user's library. Re-adding an owned book
// returns the existing entry unchanged.
func (r *Repository) AddEntry(userID, bookID uint, status entities.ReadingStatus) (*entities.LibraryEntry, error) {
	if userID == 0 || bookID == 0 {
		return nil, ErrInvalidIDs
	}
	existing, err := r.GetEntry(userID, bookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if status == "" {
		status = entities.StatusUnread
	}
	entry := entities.LibraryEntry{UserID: userID, BookID: bookID, Status: status}
	if err := r.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add library entry: %w", err)
	}
	return &entry, nil
}

// GetEntry retrieves a user's entry for a book, nil when absent.
func (r *Repository) GetEntry(userID, bookID uint) (*entities.LibraryEntry, error) {
	if userID == 0 || bookID == 0 {
		return nil, ErrInvalidIDs
	}
	var entry entities.LibraryEntry
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry patches an entry's status and/or personal notes. Nil
// pointers leave the column untouched; a pointer to the empty string
// clears the notes.
func (r *Repository) UpdateEntry(userID, bookID uint, status *entities.ReadingStatus, notes *string) (*entities.LibraryEntry, error) {
	updates := map[string]interface{}{}
	if status != nil {
		updates["status"] = *status
	}
	if notes != nil {
		if *notes == "" {
			updates["personal_notes"] = nil
		} else {
			updates["personal_notes"] = *notes
		}
	}
	if len(updates) > 0 {
		err := r.db.Model(&entities.LibraryEntry{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update library entry: %w", err)
		}
	}
	return r.GetEntry(userID, bookID)
}

// RemoveEntry drops a book from a user's library.
func (r *Repository) RemoveEntry(userID, bookID uint) error {
	if userID == 0 || bookID == 0 {
		return ErrInvalidIDs
	}
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.LibraryEntry{}).Error
}

// ListForUser retrieves a user's entries, newest first, each hydrated
// with its book.
func (r *Repository) ListForUser(userID uint) ([]entities.LibraryEntry, error) {
	var entries []entities.LibraryEntry
	err := r.db.Where("user_id = ?", userID).Order("date_added DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	for i := range entries {
		book, err := r.books.GetByID(entries[i].BookID)
		if err != nil {
			return nil, err
		}
		entries[i].Book = book
	}
	return entries, nil
}

// GetOverview counts a user's entries by reading status.
func (r *Repository) GetOverview(userID uint) (*Overview, error) {
	var overview Overview
	base := func() *gorm.DB {
		return r.db.Model(&entities.LibraryEntry{}).Where("user_id = ?", userID)
	}
	if err := base().Count(&overview.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", entities.StatusUnread).Count(&overview.Unread).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", entities.StatusReading).Count(&overview.Reading).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", entities.StatusCompleted).Count(&overview.Completed).Error; err != nil {
		return nil, err
	}
	return &overview, nil
}
