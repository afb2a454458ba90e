package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/db"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, "test-secret", 15*time.Minute, 168*time.Hour)

	return authService, testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("newuser", "new@example.com", "password123", "New User")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("first", "dup@example.com", "password123", "First")
	require.NoError(t, err)

	user, tokens, err := authService.Register("second", "dup@example.com", "password123", "Second")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("taken", "first@example.com", "password123", "First")
	require.NoError(t, err)

	user, _, err := authService.Register("taken", "second@example.com", "password123", "Second")
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
	assert.Nil(t, user)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("loginuser", "login@example.com", "password123", "Login User")
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "loginuser", user.Username)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("loginuser", "login@example.com", "password123", "Login User")
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestAuthService_Login_BannedUser(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	registered, _, err := authService.Register("banned", "banned@example.com", "password123", "Banned User")
	require.NoError(t, err)

	require.NoError(t, testDB.Model(&model.User{}).
		Where("id = ?", registered.ID).
		Update("is_banned", true).Error)

	user, tokens, err := authService.Login("banned@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserBanned)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("profile", "profile@example.com", "password123", "Old Name")
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(registered.ID, "New Name", "https://cdn.example.com/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "https://cdn.example.com/avatar.png", updated.AvatarURL)
}

func TestAuthService_UpdateProfile_UserNotFound(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	updated, err := authService.UpdateProfile(9999, "Name", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, updated)
}
