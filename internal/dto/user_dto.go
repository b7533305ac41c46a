package dto

import (
	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/models"
)

// UpdateInitRequest is the explicit set of mutable profile fields. Nil
// means "leave unchanged"; there is no generic attribute setting.
type UpdateInitRequest struct {
	Username     *string `json:"username"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	Password     *string `json:"password"`
}

type UpdateInitResponse struct {
	ExpiresIn int `json:"expires_in"`
}

type DeleteInitResponse struct {
	ExpiresIn int `json:"expires_in"`
}

// UserProfileResponse is the public view of a user.
type UserProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
}

func NewUserProfileResponse(u *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
}
