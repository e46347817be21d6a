package controller

import (
	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/internal/pkg/serverutils"
	"ai-examcoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITestController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
}

type testController struct {
	testGenService service.ITestGenService
	gradingService service.IGradingService
}

func NewTestController(testGenService service.ITestGenService, gradingService service.IGradingService) ITestController {
	return &testController{
		testGenService: testGenService,
		gradingService: gradingService,
	}
}

func (c *testController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/test/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Generate)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/submit", c.Submit)
	h.Get(":id/feedback", c.Feedback)
}

func (c *testController) Generate(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateTestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.testGenService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Test generation started", res))
}

func (c *testController) Show(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.testGenService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Test detail", res))
}

func (c *testController) List(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.testGenService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Test list", res))
}

func (c *testController) Submit(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	testId, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitAnswersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.TestId = testId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.gradingService.Submit(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Submission graded", res))
}

func (c *testController) Feedback(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	testId, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.gradingService.FeedbackReport(ctx.Context(), userId, testId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback report", res))
}
