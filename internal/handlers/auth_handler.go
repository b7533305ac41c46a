package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/posthubapp/posthub-backend/internal/dto"
	"github.com/posthubapp/posthub-backend/internal/services"
	"github.com/posthubapp/posthub-backend/internal/staging"
)

type AuthHandler struct {
	authService *services.AuthService
	coordinator *staging.Coordinator
}

func NewAuthHandler(authService *services.AuthService, coordinator *staging.Coordinator) *AuthHandler {
	return &AuthHandler{authService: authService, coordinator: coordinator}
}

// RegisterInit validates the payload and stages it; the account is not
// created until the returned token is confirmed.
func (h *AuthHandler) RegisterInit(c *fiber.Ctx) error {
	var req dto.RegisterInitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	token, err := h.coordinator.InitRegistration(c.Context(), &req)
	if err != nil {
		if verrs, ok := staging.AsValidationErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Registration failed.", verrs))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Registration initialized. Confirm with the token to create the account.", dto.RegisterInitResponse{
		Token: token,
	}))
}

// RegisterConfirm commits a staged registration and logs the new user in.
func (h *AuthHandler) RegisterConfirm(c *fiber.Ctx) error {
	var req dto.RegisterConfirmRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Token is required", nil))
	}

	user, err := h.coordinator.ConfirmRegistration(c.Context(), req.Token)
	if err != nil {
		if errors.Is(err, staging.ErrNotFoundOrExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid or expired token.", nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	resp, err := h.authService.IssueTokens(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK("Account created successfully.", resp))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(err.Error(), nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Logged in successfully.", resp))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(err.Error(), nil))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error", nil))
	}

	return c.JSON(dto.OK("Token refreshed.", resp))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body", nil))
	}

	if err := h.authService.Logout(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to logout", nil))
	}

	return c.JSON(dto.OK("Logged out successfully.", nil))
}
