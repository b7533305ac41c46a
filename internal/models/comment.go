package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a short text attached to a post.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	Content   string    `gorm:"size:255;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
