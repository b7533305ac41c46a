package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/identity"
	"github.com/posthubapp/posthub-backend/internal/models"
	"github.com/posthubapp/posthub-backend/internal/services"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPublic serves the anonymous landing feed: published posts only.
func (h *PostHandler) ListPublic(c *fiber.Ctx) error {
	posts, err := h.postService.ListPublic()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}
	return c.JSON(dto.OK("Public posts retrieved successfully.", fiber.Map{"posts": dto.NewPostListResponse(posts)}))
}

// Feed serves the identity-aware list: published posts plus the
// requester's own drafts.
func (h *PostHandler) Feed(c *fiber.Ctx) error {
	requester := identity.FromContextOptional(c)

	posts, err := h.postService.ListVisible(requester)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}
	return c.JSON(dto.OK("Posts retrieved successfully.", fiber.Map{"posts": dto.NewPostListResponse(posts)}))
}

func (h *PostHandler) MyDrafts(c *fiber.Ctx) error {
	return h.listMine(c, models.PostStatusDraft, "Your draft posts.")
}

func (h *PostHandler) MyPublished(c *fiber.Ctx) error {
	return h.listMine(c, models.PostStatusPublished, "Your published posts.")
}

func (h *PostHandler) listMine(c *fiber.Ctx, status, message string) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	posts, err := h.postService.ListMine(userID, status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}
	return c.JSON(dto.OK(message, fiber.Map{"posts": dto.NewPostListResponse(posts)}))
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	post, err := h.postService.Create(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Post creation failed.", fiber.Map{"error": err.Error()}))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK("Post created successfully.", dto.NewPostResponse(post)))
}

// Get serves post detail. Drafts belonging to someone else read as not
// found so their existence never leaks.
func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}
	requester := identity.FromContextOptional(c)

	post, err := h.postService.Get(postID, requester)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Post not found", nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Post details retrieved.", fiber.Map{"post": dto.NewPostResponse(post)}))
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	post, err := h.postService.Update(postID, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Post not found", nil))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Update failed.", fiber.Map{"error": err.Error()}))
	}

	return c.JSON(dto.OK("Post updated successfully.", dto.NewPostResponse(post)))
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}

	if err := h.postService.Delete(postID, userID); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Post not found", nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Post deleted successfully.", nil))
}

func (h *PostHandler) ListLikes(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}

	likes, err := h.postService.ListLikes(postID, userID)
	if err != nil {
		return h.gateError(c, err, "Cannot view likes for someone else's draft.")
	}

	out := make([]dto.LikeResponse, len(likes))
	for i := range likes {
		out[i] = dto.NewLikeResponse(&likes[i])
	}
	return c.JSON(dto.OK("Likes retrieved successfully.", fiber.Map{"likes": out}))
}

func (h *PostHandler) CreateLike(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}

	like, err := h.postService.Like(postID, userID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyLiked) {
			return c.Status(fiber.StatusConflict).JSON(dto.Fail("You already liked this post.", nil))
		}
		return h.gateError(c, err, "Cannot like someone else's draft.")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK("Post liked successfully.", dto.NewLikeResponse(like)))
}

func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}

	comments, err := h.postService.ListComments(postID, userID)
	if err != nil {
		return h.gateError(c, err, "Cannot view comments for someone else's draft.")
	}

	out := make([]dto.CommentResponse, len(comments))
	for i := range comments {
		out[i] = dto.NewCommentResponse(&comments[i])
	}
	return c.JSON(dto.OK("Comments retrieved successfully.", fiber.Map{"comments": out}))
}

func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid post id", nil))
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	comment, err := h.postService.Comment(postID, userID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) || errors.Is(err, services.ErrPermissionDenied) {
			return h.gateError(c, err, "Cannot comment on someone else's draft.")
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Validation error.", fiber.Map{"error": err.Error()}))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK("Comment added successfully.", dto.NewCommentResponse(comment)))
}

func (h *PostHandler) gateError(c *fiber.Ctx, err error, deniedMessage string) error {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Post not found", nil))
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail(deniedMessage, nil))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}
}
