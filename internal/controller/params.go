package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// requestUserId parses the authenticated user id placed in Locals by the JWT
// middleware. A claim that is not a UUID means the token is unusable.
func requestUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, err := uuid.Parse(ctx.Locals("user_id").(string))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user identity in token")
	}
	return userId, nil
}

// idParam parses the :id route parameter, rejecting malformed ids up front
// instead of letting them degrade into a nil-UUID lookup.
func idParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}
