package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createPost(t *testing.T, db *gorm.DB, owner *models.User, status string) *models.Post {
	post := models.Post{
		ID:     uuid.New(),
		Title:  "a title",
		Body:   "a body",
		UserID: owner.ID,
		Status: status,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func TestPostService_GetVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")
	draft := createPost(t, db, owner, models.PostStatusDraft)
	published := createPost(t, db, owner, models.PostStatusPublished)

	// Another user's draft reads as not found, never forbidden-with-data.
	_, err := svc.Get(draft.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Get(draft.ID, uuid.Nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	got, err := svc.Get(draft.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	got, err = svc.Get(published.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestPostService_ListVisible(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")
	createPost(t, db, owner, models.PostStatusDraft)
	createPost(t, db, owner, models.PostStatusPublished)

	posts, err := svc.ListVisible(owner.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = svc.ListVisible(stranger.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, models.PostStatusPublished, posts[0].Status)

	posts, err = svc.ListVisible(uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostService_LikeGating(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")
	draft := createPost(t, db, owner, models.PostStatusDraft)

	_, err := svc.Like(draft.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ListLikes(draft.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Like(draft.ID, owner.ID)
	assert.NoError(t, err)

	likes, err := svc.ListLikes(draft.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)
}

func TestPostService_LikeUnique(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fanuser")
	post := createPost(t, db, owner, models.PostStatusPublished)

	_, err := svc.Like(post.ID, fan.ID)
	require.NoError(t, err)

	_, err = svc.Like(post.ID, fan.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestPostService_CommentGating(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")
	draft := createPost(t, db, owner, models.PostStatusDraft)
	published := createPost(t, db, owner, models.PostStatusPublished)

	_, err := svc.Comment(draft.ID, stranger.ID, "sneaky")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ListComments(draft.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	comment, err := svc.Comment(published.ID, stranger.ID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, "stranger", comment.User.Username)
}

func TestPostService_CommentLength(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	post := createPost(t, db, owner, models.PostStatusPublished)

	_, err := svc.Comment(post.ID, owner.ID, "")
	assert.Error(t, err)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Comment(post.ID, owner.ID, string(long))
	assert.Error(t, err)
}

func TestPostService_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fanuser")
	post := createPost(t, db, owner, models.PostStatusPublished)
	other := createPost(t, db, owner, models.PostStatusPublished)

	_, err := svc.Like(post.ID, fan.ID)
	require.NoError(t, err)
	_, err = svc.Comment(post.ID, fan.ID, "hello")
	require.NoError(t, err)
	_, err = svc.Like(other.ID, fan.ID)
	require.NoError(t, err)

	// A non-owner cannot delete.
	assert.ErrorIs(t, svc.Delete(post.ID, fan.ID), ErrPostNotFound)

	require.NoError(t, svc.Delete(post.ID, owner.ID))

	var likeCount, commentCount int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount)
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	assert.EqualValues(t, 0, likeCount)
	assert.EqualValues(t, 0, commentCount)

	// The untouched post keeps its like.
	db.Model(&models.Like{}).Where("post_id = ?", other.ID).Count(&likeCount)
	assert.EqualValues(t, 1, likeCount)
}

func TestPostService_Counts(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fanuser")
	post := createPost(t, db, owner, models.PostStatusPublished)

	_, err := svc.Like(post.ID, fan.ID)
	require.NoError(t, err)
	_, err = svc.Comment(post.ID, fan.ID, "one")
	require.NoError(t, err)
	_, err = svc.Comment(post.ID, owner.ID, "two")
	require.NoError(t, err)

	got, err := svc.Get(post.ID, uuid.Nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikesCount)
	assert.EqualValues(t, 2, got.CommentsCount)
}

func TestPostService_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	owner := createUser(t, db, "owner")

	_, err := svc.Create(owner.ID, &dto.CreatePostRequest{Title: "", Body: "b"})
	assert.Error(t, err)

	_, err = svc.Create(owner.ID, &dto.CreatePostRequest{Title: "t", Body: "b", Status: "archived"})
	assert.Error(t, err)

	post, err := svc.Create(owner.ID, &dto.CreatePostRequest{Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, "owner", post.User.Username)
}

func TestPostService_UpdateOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")
	post := createPost(t, db, owner, models.PostStatusDraft)

	title := "updated"
	_, err := svc.Update(post.ID, stranger.ID, &dto.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, ErrPostNotFound)

	status := models.PostStatusPublished
	updated, err := svc.Update(post.ID, owner.ID, &dto.UpdatePostRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Title)
	assert.Equal(t, models.PostStatusPublished, updated.Status)
}
