package controller

import (
	"ai-examcoach-be/internal/dto"
	"ai-examcoach-be/internal/pkg/serverutils"
	"ai-examcoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document queued for indexing", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document detail", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document list", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Document deleted", nil))
}
