package categories

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
	dbPath := "./test_categories_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Category{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_GetOrCreateByName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	cat, err := repo.GetOrCreateByName("Non-fiction")
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)
	assert.Equal(t, "Non-fiction", cat.Name)
}

func TestRepository_GetOrCreateByName_CaseInsensitive(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreateByName("Reference")
	require.NoError(t, err)

	second, err := repo.GetOrCreateByName("  reference ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetOrCreateByName_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreateByName("  ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRepository_List_Ordered(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreateByName("Textbook")
	require.NoError(t, err)
	_, err = repo.GetOrCreateByName("Fiction")
	require.NoError(t, err)

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Fiction", all[0].Name)
	assert.Equal(t, "Textbook", all[1].Name)
}
