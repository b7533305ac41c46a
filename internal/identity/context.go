// Package identity extracts the authenticated user from request
// context.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FromContext returns the user UUID from JWT claims in context. On
// routes using optional auth, an anonymous requester yields uuid.Nil
// and an error.
func FromContext(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("no token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// FromContextOptional is FromContext without the error: anonymous
// requesters map to uuid.Nil.
func FromContextOptional(c *fiber.Ctx) uuid.UUID {
	id, err := FromContext(c)
	if err != nil {
		return uuid.Nil
	}
	return id
}
