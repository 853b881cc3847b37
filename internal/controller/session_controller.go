package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/service"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
	Voice(ctx *fiber.Ctx) error
	SelectAction(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	UploadEvidence(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	intakeService service.IIntakeService
	auth          fiber.Handler
}

func NewSessionController(intakeService service.IIntakeService, auth fiber.Handler) ISessionController {
	return &sessionController{
		intakeService: intakeService,
		auth:          auth,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(c.auth)
	h.Post("", c.Start)
	h.Get(":id", c.Status)
	h.Post(":id/answer", c.Answer)
	h.Post(":id/voice", c.Voice)
	h.Post(":id/action", c.SelectAction)
	h.Post(":id/confirm", c.Confirm)
	h.Post(":id/evidence", c.UploadEvidence)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	var req dto.StartSessionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.intakeService.Start(ctx.UserContext(), principal, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session started", res))
}

func (c *sessionController) Status(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}

	res, err := c.intakeService.Status(ctx.UserContext(), principal, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *sessionController) Answer(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	var req dto.AnswerRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.intakeService.Answer(ctx.UserContext(), principal, ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer recorded", res))
}

// Voice takes multipart form data: an "audio" file and optional
// "transcript_hint" and "language" fields.
func (c *sessionController) Voice(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	audio, err := formFile(ctx, "audio")
	if err != nil {
		return err
	}

	req := dto.VoiceAnswerRequest{
		TranscriptHint: ctx.FormValue("transcript_hint"),
		Language:       ctx.FormValue("language"),
	}
	if audio != nil {
		req.FileName = audio.FileName
		req.Audio = audio.Data
	}
	if len(req.Audio) == 0 && req.TranscriptHint == "" {
		return apperror.ValidationFailed("audio or transcript_hint is required").
			WithDetail("fields", map[string]interface{}{"audio": "required"})
	}

	res, err := c.intakeService.Voice(ctx.UserContext(), principal, ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Voice answer recorded", res))
}

func (c *sessionController) SelectAction(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	var req dto.SelectActionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.intakeService.SelectAction(ctx.UserContext(), principal, ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Action selected", res))
}

func (c *sessionController) Confirm(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	var req dto.ConfirmRequest
	if len(ctx.Body()) > 0 {
		if err := bind(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.intakeService.Confirm(ctx.UserContext(), principal, ctx.Params("id"), req.Accepted())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Confirmation recorded", res))
}

func (c *sessionController) UploadEvidence(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	file, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	if file == nil {
		return apperror.ValidationFailed("file is required").
			WithDetail("fields", map[string]interface{}{"file": "required"})
	}

	res, err := c.intakeService.UploadEvidence(ctx.UserContext(), principal, ctx.Params("id"), &dto.EvidenceUploadRequest{
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Evidence uploaded", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	principal, err := serverutils.Principal(ctx)
	if err != nil {
		return err
	}
	if err := c.intakeService.Delete(ctx.UserContext(), principal, ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}
