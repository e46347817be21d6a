package controller

import (
	"strconv"

	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/internal/pkg/serverutils"
	"ai-examcoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	SetQuestionContext(ctx *fiber.Ctx) error
	SessionInfo(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	SessionCount(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("chat", c.SendChat)
	h.Post("question-context", c.SetQuestionContext)
	h.Get("sessions/count", c.SessionCount)
	h.Get("session/:id", c.SessionInfo)
	h.Get("session/:id/history", c.History)
	h.Delete("session/:id", c.EndSession)
}

func (c *assistantController) SendChat(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Assistant reply", res))
}

func (c *assistantController) SetQuestionContext(ctx *fiber.Ctx) error {
	var req dto.SetQuestionContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.assistantService.SetQuestionContext(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Question context updated", nil))
}

func (c *assistantController) SessionInfo(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	res, ok := c.assistantService.SessionInfo(ctx.Context(), sessionId)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Session info", res))
}

func (c *assistantController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	count, err := strconv.Atoi(ctx.Query("count", "10"))
	if err != nil || count <= 0 {
		count = 10
	}

	entries := c.assistantService.History(ctx.Context(), sessionId, count)
	return ctx.JSON(serverutils.SuccessResponse("Chat history", entries))
}

func (c *assistantController) SessionCount(ctx *fiber.Ctx) error {
	count := c.assistantService.SessionCount(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Active sessions", fiber.Map{"count": count}))
}

func (c *assistantController) EndSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	c.assistantService.EndSession(ctx.Context(), sessionId)
	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}
