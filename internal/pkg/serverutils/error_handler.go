package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

// ErrorHandlerMiddleware renders errors returned by downstream handlers as
// the error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return WriteError(ctx, err)
		}
		return nil
	}
}

// FiberErrorHandler is installed as fiber.Config.ErrorHandler for errors
// raised outside the middleware chain, such as body limit violations.
func FiberErrorHandler(ctx *fiber.Ctx, err error) error {
	return WriteError(ctx, err)
}

func WriteError(ctx *fiber.Ctx, err error) error {
	appErr := toAppError(err)
	return ctx.Status(appErr.HTTPStatus()).JSON(ErrorResponse(appErr))
}

func toAppError(err error) *apperror.Error {
	if appErr, ok := apperror.From(err); ok {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return apperror.New(apperror.KindNotFound, fiberErr.Message)
		case fiber.StatusUnauthorized:
			return apperror.New(apperror.KindUnauthorized, fiberErr.Message)
		case fiber.StatusForbidden:
			return apperror.New(apperror.KindForbidden, fiberErr.Message)
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
			return apperror.New(apperror.KindValidationFailed, fiberErr.Message)
		}
	}
	return apperror.Wrap(apperror.KindInternal, err, "internal server error")
}
