package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ivanzak/bookden/internal/config"
	"github.com/ivanzak/bookden/internal/database/users"
	"github.com/ivanzak/bookden/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	svc := NewService(users.NewRepository(db), config.Auth{
		Mode:            config.AuthModeLocal,
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return svc, cleanup
}

func TestService_CreateUser(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	// The hash is stored, never the password itself.
	assert.NotEqual(t, "a-long-enough-password", user.PasswordHash)
	assert.NoError(t, CheckPassword("a-long-enough-password", user.PasswordHash))
}

func TestService_CreateUser_Validation(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@b.com", "a-long-enough-password", ErrUsernameRequired},
		{"empty email", "ivan", "", "a-long-enough-password", ErrEmailRequired},
		{"empty password", "ivan", "a@b.com", "", ErrPasswordRequired},
		{"short username", "iv", "a@b.com", "a-long-enough-password", ErrUsernameInvalid},
		{"bad characters", "ivan zak", "a@b.com", "a-long-enough-password", ErrUsernameInvalid},
		{"bad email", "ivan", "not-an-email", "a-long-enough-password", ErrEmailInvalid},
		{"short password", "ivan", "a@b.com", "short", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CreateUser_Duplicate(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)

	_, err = svc.CreateUser("ivan", "other@example.com", "a-long-enough-password")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.CreateUser("other", "ivan@example.com", "a-long-enough-password")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Authenticate(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)

	user, err := svc.Authenticate("ivan", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// Email works as the login too.
	user, err = svc.Authenticate("ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestService_Authenticate_BadCredentials(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)

	_, err = svc.Authenticate("ivan", "wrong-password-entirely")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate("nobody", "a-long-enough-password")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ChangePassword(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)

	err = svc.ChangePassword(created.ID, "a-long-enough-password", "another-long-password")
	require.NoError(t, err)

	_, err = svc.Authenticate("ivan", "a-long-enough-password")
	assert.Error(t, err)

	_, err = svc.Authenticate("ivan", "another-long-password")
	assert.NoError(t, err)
}

func TestService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)

	err = svc.ChangePassword(created.ID, "wrong-password-entirely", "another-long-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestService_HasUsers(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	has, err := svc.HasUsers()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.CreateUser("ivan", "ivan@example.com", "a-long-enough-password")
	require.NoError(t, err)

	has, err = svc.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)
}
