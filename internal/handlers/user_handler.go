package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/identity"
	"github.com/posthubapp/posthub-backend/internal/services"
	"github.com/posthubapp/posthub-backend/internal/staging"
)

type UserHandler struct {
	userService *services.UserService
	coordinator *staging.Coordinator
}

func NewUserHandler(userService *services.UserService, coordinator *staging.Coordinator) *UserHandler {
	return &UserHandler{userService: userService, coordinator: coordinator}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.ListActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	out := make([]dto.UserProfileResponse, len(users))
	for i := range users {
		out[i] = dto.NewUserProfileResponse(&users[i])
	}
	return c.JSON(dto.OK("Users retrieved successfully.", fiber.Map{"users": out}))
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid user id", nil))
	}

	user, err := h.userService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("User not found", nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("User details retrieved.", fiber.Map{"user": dto.NewUserProfileResponse(user)}))
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	user, err := h.userService.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("User not found", nil))
	}

	return c.JSON(dto.OK("Profile retrieved.", fiber.Map{"user": dto.NewUserProfileResponse(user)}))
}

// UpdateInit stages a profile update for the authenticated user.
func (h *UserHandler) UpdateInit(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	var req dto.UpdateInitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	ttl, err := h.coordinator.InitUpdate(c.Context(), userID, &req)
	if err != nil {
		if verrs, ok := staging.AsValidationErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Update failed.", verrs))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Update staged. Confirm to apply.", dto.UpdateInitResponse{
		ExpiresIn: int(ttl.Seconds()),
	}))
}

// UpdateConfirm applies the staged update. No token needed; the session
// authorizes the commit.
func (h *UserHandler) UpdateConfirm(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	id, err := h.coordinator.ConfirmUpdate(c.Context(), userID)
	if err != nil {
		if errors.Is(err, staging.ErrNotFoundOrExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("No pending update.", nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Profile updated successfully.", fiber.Map{"user_id": id}))
}

// DeleteInit stages account deletion.
func (h *UserHandler) DeleteInit(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	ttl, err := h.coordinator.InitDeletion(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Deletion staged. Confirm to remove the account.", dto.DeleteInitResponse{
		ExpiresIn: int(ttl.Seconds()),
	}))
}

// DeleteConfirm removes the account and everything it owns.
func (h *UserHandler) DeleteConfirm(c *fiber.Ctx) error {
	userID, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized", nil))
	}

	if err := h.coordinator.ConfirmDeletion(c.Context(), userID); err != nil {
		if errors.Is(err, staging.ErrNotFoundOrExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("No pending deletion.", nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete account", nil))
	}

	return c.JSON(dto.OK("Account deleted successfully.", nil))
}
