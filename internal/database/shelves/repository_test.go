package shelves

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ivanzak/bookden/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_shelves_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Shelf{}, &entities.ShelfBook{}, &entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAndCount(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create("Favourites")
	require.NoError(t, err)
	assert.NotZero(t, shelf.ID)

	got, err := repo.GetByID(shelf.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Zero(t, got.BookCount)

	require.NoError(t, repo.AddBook(shelf.ID, 1))
	require.NoError(t, repo.AddBook(shelf.ID, 2))

	got, err = repo.GetByID(shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.BookCount)
}

func TestRepository_Create_EmptyName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("  ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRepository_AddBook_DuplicateIsNoOp(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create("Favourites")
	require.NoError(t, err)

	require.NoError(t, repo.AddBook(shelf.ID, 7))
	require.NoError(t, repo.AddBook(shelf.ID, 7))

	got, err := repo.GetByID(shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.BookCount)
}

func TestRepository_RemoveBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create("Favourites")
	require.NoError(t, err)
	require.NoError(t, repo.AddBook(shelf.ID, 7))

	require.NoError(t, repo.RemoveBook(shelf.ID, 7))

	ids, err := repo.BookIDs(shelf.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRepository_Delete_RemovesLinks(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	shelf, err := repo.Create("Favourites")
	require.NoError(t, err)
	require.NoError(t, repo.AddBook(shelf.ID, 7))

	require.NoError(t, repo.Delete(shelf.ID))

	got, err := repo.GetByID(shelf.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err := repo.BookIDs(shelf.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRepository_GetByID_Absent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := repo.GetByID(99)
	require.NoError(t, err)
	assert.Nil(t, got)
}
