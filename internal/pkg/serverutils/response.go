package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

// Response is the success envelope shared by every endpoint.
type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Kind      apperror.Kind          `json:"kind"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}

func SuccessResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err *apperror.Error) *ErrorEnvelope {
	return &ErrorEnvelope{
		Success: false,
		Code:    err.HTTPStatus(),
		Message: err.Message,
		Error: ErrorBody{
			Kind:      err.Kind,
			Retryable: err.Retryable(),
			Details:   err.Details,
		},
	}
}
