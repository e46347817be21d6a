package serverutils

import (
	"net/http/httptest"
	"testing"

	"ai-examcoach-be/pkg/store"
	"ai-examcoach-be/pkg/usage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Post("/", handler)
	return app
}

func TestValidateRequestFailureIsBadRequest(t *testing.T) {
	err := ValidateRequest(struct {
		SessionId string `validate:"required"`
	}{})

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "SessionId")
}

func TestErrorHandlerMapsRequestValidationTo400(t *testing.T) {
	type chatRequest struct {
		SessionId string `validate:"required"`
		Message   string `validate:"required"`
	}

	app := newTestApp(func(ctx *fiber.Ctx) error {
		return ValidateRequest(chatRequest{})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestErrorHandlerMapsEnumValidationTo400(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		return &store.ValidationError{Field: "question_type", Value: "essay"}
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestErrorHandlerMapsLimitExceededTo429(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		return &usage.LimitExceededError{UserId: "u", Limit: 10}
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestErrorHandlerMapsRecordNotFoundTo404(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		return gorm.ErrRecordNotFound
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestErrorHandlerDefaultsTo500(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		return assert.AnError
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
