// Package staging implements the two-phase init/confirm protocol for
// registration, profile update and account deletion. An init call
// validates intent and stages the payload in a TTL cache; a confirm
// call re-reads the entry and commits it to the database. Abandoned
// flows clean themselves up through cache expiry.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/cache"
	"github.com/posthubapp/posthub-backend/internal/config"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Coordinator manages pending mutations. The cache is an injected
// dependency so tests can run against the in-memory store.
type Coordinator struct {
	db    *gorm.DB
	cache cache.Store
	cfg   *config.Config
}

func New(db *gorm.DB, store cache.Store, cfg *config.Config) *Coordinator {
	return &Coordinator{db: db, cache: store, cfg: cfg}
}

// pendingRegistration is staged under a random token. The password is
// hashed before staging; the plaintext is never written to the cache.
type pendingRegistration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// pendingUpdate mirrors dto.UpdateInitRequest with the password already
// hashed. Nil fields are left unchanged on confirm.
type pendingUpdate struct {
	Username     *string `json:"username,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	PasswordHash *string `json:"password_hash,omitempty"`
}

// InitRegistration validates the payload, stages it and returns the
// staging token the client must present on confirm.
func (c *Coordinator) InitRegistration(ctx context.Context, req *dto.RegisterInitRequest) (string, error) {
	errs := ValidationErrors{}
	if !validUsername(req.Username) {
		errs["username"] = "must be alphanumeric and at least 4 characters"
	}
	if !validEmail(req.Email) {
		errs["email"] = "must be a valid email address"
	}
	if len(req.Password) < minPasswordLen {
		errs["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(errs) > 0 {
		return "", errs
	}

	var existing models.User
	if err := c.db.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error; err == nil {
		errs["username"] = "already taken"
	}
	if err := c.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		errs["email"] = "already registered"
	}
	if len(errs) > 0 {
		return "", errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := newStagingToken()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(pendingRegistration{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, registerKey(token), payload, c.cfg.RegisterTTL); err != nil {
		return "", fmt.Errorf("failed to stage registration: %w", err)
	}
	return token, nil
}

// ConfirmRegistration commits a staged registration. The cache entry is
// deleted only after the user row exists, so a failed commit leaves the
// entry in place for retry; a second confirm with the same token fails
// with ErrNotFoundOrExpired.
func (c *Coordinator) ConfirmRegistration(ctx context.Context, token string) (*models.User, error) {
	raw, err := c.cache.Get(ctx, registerKey(token))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFoundOrExpired
	}
	if err != nil {
		return nil, err
	}

	var pending pendingRegistration
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, fmt.Errorf("corrupt pending registration: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		IsActive:     true,
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := c.cache.Delete(ctx, registerKey(token)); err != nil {
		return nil, err
	}
	return &user, nil
}

// InitUpdate validates and stages a profile update for the authenticated
// user. Repeated inits overwrite the same identity-derived key.
func (c *Coordinator) InitUpdate(ctx context.Context, userID uuid.UUID, req *dto.UpdateInitRequest) (time.Duration, error) {
	errs := ValidationErrors{}
	if req.Username != nil && !validUsername(*req.Username) {
		errs["username"] = "must be alphanumeric and at least 4 characters"
	}
	if req.Password != nil && len(*req.Password) < minPasswordLen {
		errs["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(errs) > 0 {
		return 0, errs
	}

	if req.Username != nil {
		var existing models.User
		err := c.db.WithContext(ctx).
			Where("username = ? AND id <> ?", *req.Username, userID).
			First(&existing).Error
		if err == nil {
			errs["username"] = "already taken"
			return 0, errs
		}
	}

	pending := pendingUpdate{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hash)
		pending.PasswordHash = &h
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return 0, err
	}
	if err := c.cache.Set(ctx, updateKey(userID), payload, c.cfg.UpdateTTL); err != nil {
		return 0, fmt.Errorf("failed to stage update: %w", err)
	}
	return c.cfg.UpdateTTL, nil
}

// ConfirmUpdate applies the staged field set to the user row. No token
// is required; the authenticated session itself authorizes the commit.
func (c *Coordinator) ConfirmUpdate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	raw, err := c.cache.Get(ctx, updateKey(userID))
	if errors.Is(err, cache.ErrMiss) {
		return uuid.Nil, ErrNotFoundOrExpired
	}
	if err != nil {
		return uuid.Nil, err
	}

	var pending pendingUpdate
	if err := json.Unmarshal(raw, &pending); err != nil {
		return uuid.Nil, fmt.Errorf("corrupt pending update: %w", err)
	}

	updates := map[string]interface{}{}
	if pending.Username != nil {
		updates["username"] = *pending.Username
	}
	if pending.FirstName != nil {
		updates["first_name"] = *pending.FirstName
	}
	if pending.LastName != nil {
		updates["last_name"] = *pending.LastName
	}
	if pending.Bio != nil {
		updates["bio"] = *pending.Bio
	}
	if pending.ProfileImage != nil {
		updates["profile_image"] = *pending.ProfileImage
	}
	if pending.PasswordHash != nil {
		updates["password_hash"] = *pending.PasswordHash
	}

	if len(updates) > 0 {
		result := c.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return uuid.Nil, fmt.Errorf("failed to apply update: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return uuid.Nil, gorm.ErrRecordNotFound
		}
	}

	if err := c.cache.Delete(ctx, updateKey(userID)); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

// InitDeletion stages a deletion flag and returns the confirmation
// window.
func (c *Coordinator) InitDeletion(ctx context.Context, userID uuid.UUID) (time.Duration, error) {
	if err := c.cache.Set(ctx, deleteKey(userID), []byte("1"), c.cfg.DeleteTTL); err != nil {
		return 0, fmt.Errorf("failed to stage deletion: %w", err)
	}
	return c.cfg.DeleteTTL, nil
}

// ConfirmDeletion removes the user and everything they own: refresh
// tokens, likes, comments, posts, and the likes/comments attached to
// those posts.
func (c *Coordinator) ConfirmDeletion(ctx context.Context, userID uuid.UUID) error {
	_, err := c.cache.Get(ctx, deleteKey(userID))
	if errors.Is(err, cache.ErrMiss) {
		return ErrNotFoundOrExpired
	}
	if err != nil {
		return err
	}

	var user models.User
	if err := c.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return c.cache.Delete(ctx, deleteKey(userID))
}
