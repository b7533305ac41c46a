package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/posthubapp/posthub-backend/internal/cache"
	"github.com/posthubapp/posthub-backend/internal/database"
	"github.com/posthubapp/posthub-backend/internal/dto"
)

type HealthHandler struct {
	cache cache.Store
}

func NewHealthHandler(store cache.Store) *HealthHandler {
	return &HealthHandler{cache: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	cacheStatus := "ok"
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.cache.Get(ctx, "health:probe"); err != nil && !errors.Is(err, cache.ErrMiss) {
		cacheStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}
