// Package access decides whether a requester may touch a post-scoped
// resource: the post itself, its likes, or its comments.
package access

import (
	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/models"
	"gorm.io/gorm"
)

// CanView reports whether requester may read post or anything scoped to
// it. A published post is open to everyone, including anonymous
// requesters (uuid.Nil); a draft is open only to its owner.
func CanView(post *models.Post, requester uuid.UUID) bool {
	if post.Status == models.PostStatusPublished {
		return true
	}
	return requester != uuid.Nil && post.UserID == requester
}

// VisibleTo is a query scope selecting the posts requester may see:
// everything published, plus the requester's own posts when
// authenticated.
func VisibleTo(requester uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if requester == uuid.Nil {
			return db.Where("status = ?", models.PostStatusPublished)
		}
		return db.Where("status = ? OR user_id = ?", models.PostStatusPublished, requester)
	}
}
