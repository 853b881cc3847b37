package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

// maxUploadBytes bounds a single audio or evidence file.
const maxUploadBytes = 8 << 20

// bind parses and validates the request body into req.
func bind(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, err, "malformed request body")
	}
	return serverutils.ValidateRequest(req)
}

func idParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.ValidationFailed("invalid id %q", ctx.Params("id"))
	}
	return id, nil
}

type upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// formFile reads a multipart file. A missing field returns nil, nil.
func formFile(ctx *fiber.Ctx, field string) (*upload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		return nil, nil
	}
	if fh.Size > maxUploadBytes {
		return nil, apperror.ValidationFailed("%s exceeds %d bytes", field, maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidationFailed, err, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidationFailed, err, "unreadable upload")
	}
	if len(data) > maxUploadBytes {
		return nil, apperror.ValidationFailed("%s exceeds %d bytes", field, maxUploadBytes)
	}
	return &upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
