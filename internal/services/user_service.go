package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/models"
	"gorm.io/gorm"
)

// UserService serves the public user directory.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListActive returns all active users.
func (s *UserService) ListActive() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("is_active = true").Order("created_at ASC").Find(&users).Error
	return users, err
}

// Get returns an active user by id.
func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND is_active = true", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
