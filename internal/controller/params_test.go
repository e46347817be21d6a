package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdParamRejectsMalformedId(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(ctx *fiber.Ctx) error {
		id, err := idParam(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{"id": id.String()})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequestUserIdRejectsNonUUIDClaim(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", "trainee-42")
		_, err := requestUserId(ctx)
		return err
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
