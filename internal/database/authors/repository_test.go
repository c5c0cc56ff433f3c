package authors

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
	dbPath := "./test_authors_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Author{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_GetOrCreateByName_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.GetOrCreateByName("Frank Herbert")

	require.NoError(t, err)
	assert.NotZero(t, author.ID)
	assert.Equal(t, "Frank", author.FirstName)
	require.NotNil(t, author.LastName)
	assert.Equal(t, "Herbert", *author.LastName)
	assert.Nil(t, author.MiddleName)
}

func TestRepository_GetOrCreateByName_Existing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreateByName("Frank Herbert")
	require.NoError(t, err)

	second, err := repo.GetOrCreateByName("frank herbert")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetOrCreateByName_MiddleNameDistinguishes(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	plain, err := repo.GetOrCreateByName("John Smith")
	require.NoError(t, err)

	withMiddle, err := repo.GetOrCreateByName("John Paul Smith")
	require.NoError(t, err)
	assert.NotEqual(t, plain.ID, withMiddle.ID)
	require.NotNil(t, withMiddle.MiddleName)
	assert.Equal(t, "Paul", *withMiddle.MiddleName)
}

func TestRepository_GetOrCreateByName_AliasMatch(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alias := "Mark Twain"
	last := "Clemens"
	author := &entities.Author{FirstName: "Samuel", LastName: &last, Alias: &alias}
	require.NoError(t, repo.Create(author))

	found, err := repo.GetOrCreateByName("mark twain")
	require.NoError(t, err)
	assert.Equal(t, author.ID, found.ID)
}

func TestRepository_GetOrCreateByName_SingleToken(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.GetOrCreateByName("Homer")
	require.NoError(t, err)
	assert.Equal(t, "Homer", author.FirstName)
	assert.Nil(t, author.LastName)
}

func TestRepository_GetOrCreateByName_EmptyName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreateByName("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRepository_GetByID_Absent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.GetByID(42)
	require.NoError(t, err)
	assert.Nil(t, author)
}

func TestRepository_GetByIDs(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	a, err := repo.GetOrCreateByName("Frank Herbert")
	require.NoError(t, err)
	b, err := repo.GetOrCreateByName("Ursula Le Guin")
	require.NoError(t, err)

	rows, err := repo.GetByIDs([]uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.GetByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
