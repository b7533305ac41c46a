package models

import (
	"time"

	"github.com/google/uuid"
)

// Post statuses. There is no automatic transition; the author flips the
// status explicitly.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is owned by exactly one user. Drafts are visible only to the owner.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"size:1000;not null" json:"body"`
	Photo     string    `gorm:"size:500" json:"photo"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	Status    string    `gorm:"size:20;not null;default:'draft';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by list/detail queries, not stored.
	LikesCount    int64 `gorm:"-" json:"likes_count"`
	CommentsCount int64 `gorm:"-" json:"comments_count"`
}
