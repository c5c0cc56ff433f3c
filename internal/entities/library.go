package entities

import (
	"time"
)

// ReadingStatus tracks where a book sits in the reading pipeline.
type ReadingStatus string

const (
	StatusUnread    ReadingStatus = "Unread"
	StatusReading   ReadingStatus = "Reading"
	StatusCompleted ReadingStatus = "Completed"
)

// Book is a single library row. Authors and Genres are never stored on the
// row itself; they are hydrated from the link tables on every read.
type Book struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Title            string        `gorm:"index;size:512" json:"title"`
	YearOfPublishing *int          `json:"year_of_publishing"`
	ISBN             *string       `gorm:"uniqueIndex;size:20" json:"isbn,omitempty"`
	Pages            *int          `json:"pages,omitempty"`
	Notes            *string       `json:"notes"`
	CoverURL         *string       `gorm:"size:2048" json:"cover_url"`
	Status           ReadingStatus `gorm:"size:20;default:'Unread'" json:"status"`
	PublisherID      *uint         `json:"publisher_id"`
	SeriesID         *uint         `json:"series_id"`
	CategoryID       *uint         `json:"category_id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Hydrated view, populated by the books repository. Not persisted.
	Authors []Author `gorm:"-:all" json:"authors,omitempty"`
	Genres  []Genre  `gorm:"-:all" json:"genres,omitempty"`
}

type Author struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"index;size:256" json:"first_name"`
	MiddleName *string   `gorm:"size:256" json:"middle_name"`
	LastName   *string   `gorm:"index;size:256" json:"last_name"`
	Alias      *string   `gorm:"size:256" json:"alias"`
	Monastery  *string   `gorm:"size:256" json:"monastery"`
	Title      *string   `gorm:"size:128" json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Publisher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Series struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Shelf is a user-curated grouping of books. BookCount is derived from
// shelf_books on read, never stored.
type Shelf struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	BookCount int64 `gorm:"-:all" json:"book_count"`
}

// BookAuthor is a pure link row: existence implies the relation.
type BookAuthor struct {
	BookID   uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	AuthorID uint `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
}

type BookGenre struct {
	BookID  uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false" json:"genre_id"`
}

type ShelfBook struct {
	ShelfID uint      `gorm:"primaryKey;autoIncrement:false" json:"shelf_id"`
	BookID  uint      `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LibraryEntry links a user to a book they own, with per-copy state.
type LibraryEntry struct {
	ID            uint          `gorm:"primaryKey" json:"entry_id"`
	UserID        uint          `gorm:"index" json:"user_id"`
	BookID        uint          `gorm:"index" json:"book_id"`
	Status        ReadingStatus `gorm:"size:20;default:'Unread'" json:"status"`
	PersonalNotes *string       `json:"personal_notes"`
	DateAdded     time.Time     `gorm:"autoCreateTime" json:"date_added"`

	Book *Book `gorm:"-:all" json:"book,omitempty"`
}

func (Book) TableName() string      { return "books" }
func (Author) TableName() string    { return "authors" }
func (Genre) TableName() string     { return "genres" }
func (Publisher) TableName() string { return "publishers" }
func (Series) TableName() string    { return "series" }
func (Category) TableName() string  { return "categories" }
func (Shelf) TableName() string     { return "shelves" }

func (BookAuthor) TableName() string { return "book_authors" }
func (BookGenre) TableName() string  { return "book_genres" }
func (ShelfBook) TableName() string  { return "shelf_books" }

func (User) TableName() string         { return "users" }
func (LibraryEntry) TableName() string { return "user_library" }
