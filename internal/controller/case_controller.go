package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/service"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

type ICaseController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Patch(ctx *fiber.Ctx) error
	ConfirmEntity(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Document(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
}

type caseController struct {
	caseService service.ICaseService
	auth        fiber.Handler
}

func NewCaseController(caseService service.ICaseService, auth fiber.Handler) ICaseController {
	return &caseController{
		caseService: caseService,
		auth:        auth,
	}
}

func (c *caseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/case/v1")
	h.Use(c.auth)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Patch)
	h.Post(":id/confirm-entity", c.ConfirmEntity)
	h.Delete(":id", c.Delete)
	h.Get(":id/document", c.Document)
	h.Get(":id/document/download", c.Download)
}

func (c *caseController) List(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	var req dto.ListCasesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, err, "malformed query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.caseService.List(ctx.UserContext(), principal, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list cases", res))
}

func (c *caseController) Create(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateDraftCaseRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.caseService.CreateDraft(ctx.UserContext(), principal, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create case", res))
}

func (c *caseController) Show(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.caseService.Show(ctx.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show case", res))
}

func (c *caseController) Patch(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var req dto.PatchCaseRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.caseService.Patch(ctx.UserContext(), principal, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update case", res))
}

func (c *caseController) ConfirmEntity(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var req dto.ConfirmEntityRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.caseService.ConfirmEntity(ctx.UserContext(), principal, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success confirm entity", res))
}

func (c *caseController) Delete(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	if err := c.caseService.Delete(ctx.UserContext(), principal, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete case", nil))
}

func (c *caseController) Document(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.caseService.LatestDocument(ctx.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get document", res))
}

func (c *caseController) Download(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	doc, err := c.caseService.LatestDocument(ctx.UserContext(), principal, id)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, doc.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return ctx.SendString(doc.Content)
}
