package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/models"
)

type CreatePostRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Photo  string `json:"photo"`
	Status string `json:"status"`
}

type UpdatePostRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Photo  *string `json:"photo"`
	Status *string `json:"status"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// AuthorResponse is the embedded author summary on posts.
type AuthorResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profile_image"`
}

type PostResponse struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Body          string         `json:"body"`
	Photo         string         `json:"photo"`
	Author        AuthorResponse `json:"user"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LikesCount    int64          `json:"likes_count"`
	CommentsCount int64          `json:"comments_count"`
}

func NewPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:    p.ID,
		Title: p.Title,
		Body:  p.Body,
		Photo: p.Photo,
		Author: AuthorResponse{
			ID:           p.User.ID,
			Username:     p.User.Username,
			ProfileImage: p.User.ProfileImage,
		},
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
	}
}

func NewPostListResponse(posts []models.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i := range posts {
		out[i] = NewPostResponse(&posts[i])
	}
	return out
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	Username  string    `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Username:  c.User.Username,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type LikeResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLikeResponse(l *models.Like) LikeResponse {
	return LikeResponse{
		ID:        l.ID,
		PostID:    l.PostID,
		UserID:    l.UserID,
		CreatedAt: l.CreatedAt,
	}
}
