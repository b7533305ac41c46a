package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/config"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func seedLoginUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestAuthService_Login(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, authTestConfig())
	seedLoginUser(t, db, "alice1", "password123")

	resp, err := svc.Login(&dto.LoginRequest{Username: "alice1", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice1", resp.User.Username)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, authTestConfig())
	seedLoginUser(t, db, "alice1", "password123")

	_, err := svc.Login(&dto.LoginRequest{Username: "alice1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginInactiveUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, authTestConfig())

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		ID:           uuid.New(),
		Username:     "pending1",
		Email:        "pending@example.com",
		PasswordHash: string(hash),
		IsActive:     false,
	}
	require.NoError(t, db.Create(&user).Error)

	_, err = svc.Login(&dto.LoginRequest{Username: "pending1", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, authTestConfig())
	seedLoginUser(t, db, "alice1", "password123")

	first, err := svc.Login(&dto.LoginRequest{Username: "alice1", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The presented token was revoked on rotation.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, authTestConfig())
	seedLoginUser(t, db, "alice1", "password123")

	resp, err := svc.Login(&dto.LoginRequest{Username: "alice1", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_Directory(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	active := seedLoginUser(t, db, "alice1", "password123")
	inactive := models.User{
		ID:           uuid.New(),
		Username:     "ghost1",
		Email:        "ghost@example.com",
		PasswordHash: "x",
		IsActive:     false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	users, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice1", users[0].Username)

	got, err := svc.Get(active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	_, err = svc.Get(inactive.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
