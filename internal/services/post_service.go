package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/access"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyLiked     = errors.New("post already liked")
)

// PostService handles post CRUD plus likes and comments. Every
// post-scoped read and write goes through the access gate; a draft
// belonging to someone else behaves as if it did not exist or is
// explicitly forbidden, never partially leaked.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) Create(userID uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error) {
	if req.Title == "" || len(req.Title) > 255 {
		return nil, errors.New("title must be 1-255 characters")
	}
	if req.Body == "" || len(req.Body) > 1000 {
		return nil, errors.New("body must be 1-1000 characters")
	}

	status := req.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if status != models.PostStatusDraft && status != models.PostStatusPublished {
		return nil, errors.New("status must be draft or published")
	}

	post := models.Post{
		ID:     uuid.New(),
		Title:  req.Title,
		Body:   req.Body,
		Photo:  req.Photo,
		UserID: userID,
		Status: status,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&post, "id = ?", post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Get returns a post with counts, or ErrPostNotFound when it does not
// exist or the requester may not see it.
func (s *PostService) Get(postID, requester uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if !access.CanView(&post, requester) {
		return nil, ErrPostNotFound
	}

	if err := s.attachCounts([]*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublic returns published posts only, newest first.
func (s *PostService) ListPublic() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").
		Where("status = ?", models.PostStatusPublished).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.attachCountsSlice(posts)
}

// ListVisible returns the feed for a requester: published posts plus
// their own drafts when authenticated.
func (s *PostService) ListVisible(requester uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").
		Scopes(access.VisibleTo(requester)).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.attachCountsSlice(posts)
}

// ListMine returns the requester's own posts filtered by status.
func (s *PostService) ListMine(userID uuid.UUID, status string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.attachCountsSlice(posts)
}

// Update applies owner-only changes. A non-owner sees ErrPostNotFound,
// not a forbidden hint.
func (s *PostService) Update(postID, userID uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ? AND user_id = ?", postID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > 255 {
			return nil, errors.New("title must be 1-255 characters")
		}
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		if *req.Body == "" || len(*req.Body) > 1000 {
			return nil, errors.New("body must be 1-1000 characters")
		}
		updates["body"] = *req.Body
	}
	if req.Photo != nil {
		updates["photo"] = *req.Photo
	}
	if req.Status != nil {
		if *req.Status != models.PostStatusDraft && *req.Status != models.PostStatusPublished {
			return nil, errors.New("status must be draft or published")
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("User").First(&post, "id = ?", postID).Error; err != nil {
		return nil, err
	}
	if err := s.attachCounts([]*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes an owned post and cascades to its likes and comments.
func (s *PostService) Delete(postID, userID uuid.UUID) error {
	var post models.Post
	if err := s.db.First(&post, "id = ? AND user_id = ?", postID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// ListLikes returns a post's likes, gate-checked.
func (s *PostService) ListLikes(postID, requester uuid.UUID) ([]models.Like, error) {
	if err := s.gateCheck(postID, requester); err != nil {
		return nil, err
	}

	var likes []models.Like
	err := s.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&likes).Error
	return likes, err
}

// Like records a like, at most once per (user, post) pair.
func (s *PostService) Like(postID, requester uuid.UUID) (*models.Like, error) {
	if err := s.gateCheck(postID, requester); err != nil {
		return nil, err
	}

	var existing models.Like
	if err := s.db.Where("post_id = ? AND user_id = ?", postID, requester).First(&existing).Error; err == nil {
		return nil, ErrAlreadyLiked
	}

	like := models.Like{
		ID:     uuid.New(),
		PostID: postID,
		UserID: requester,
	}
	if err := s.db.Create(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

// ListComments returns a post's comments, gate-checked.
func (s *PostService) ListComments(postID, requester uuid.UUID) ([]models.Comment, error) {
	if err := s.gateCheck(postID, requester); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Comment attaches a comment to a post, gate-checked.
func (s *PostService) Comment(postID, requester uuid.UUID, content string) (*models.Comment, error) {
	if content == "" || len(content) > 255 {
		return nil, errors.New("content must be 1-255 characters")
	}

	if err := s.gateCheck(postID, requester); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:      uuid.New(),
		PostID:  postID,
		UserID:  requester,
		Content: content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// gateCheck loads the post and applies the access rule shared by every
// like/comment operation.
func (s *PostService) gateCheck(postID, requester uuid.UUID) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if !access.CanView(&post, requester) {
		return ErrPermissionDenied
	}
	return nil
}

func (s *PostService) attachCountsSlice(posts []models.Post) error {
	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	return s.attachCounts(refs)
}

// attachCounts fills LikesCount/CommentsCount with two grouped queries
// instead of one pair per post.
func (s *PostService) attachCounts(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	type rowCount struct {
		PostID uuid.UUID
		Total  int64
	}

	var likeRows []rowCount
	err := s.db.Model(&models.Like{}).
		Select("post_id, count(*) as total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&likeRows).Error
	if err != nil {
		return err
	}

	var commentRows []rowCount
	err = s.db.Model(&models.Comment{}).
		Select("post_id, count(*) as total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&commentRows).Error
	if err != nil {
		return err
	}

	likes := make(map[uuid.UUID]int64, len(likeRows))
	for _, r := range likeRows {
		likes[r.PostID] = r.Total
	}
	comments := make(map[uuid.UUID]int64, len(commentRows))
	for _, r := range commentRows {
		comments[r.PostID] = r.Total
	}

	for _, p := range posts {
		p.LikesCount = likes[p.ID]
		p.CommentsCount = comments[p.ID]
	}
	return nil
}
