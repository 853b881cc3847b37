package serverutils

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

const testSecret = "test-secret"

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", NewJwtMiddleware(testSecret), handler)
	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) ErrorEnvelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env ErrorEnvelope
	require.NoError(t, sonic.Unmarshal(body, &env))
	return env
}

func TestJwtMiddleware(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		p, err := Principal(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", string(p)))
	})

	valid, err := IssueToken(testSecret, "user-1", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "user-1", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", "user-1", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer " + valid, status: fiber.StatusOK},
		{name: "missing header", header: "", status: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: fiber.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, status: fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusUnauthorized {
				env := decodeEnvelope(t, resp)
				assert.False(t, env.Success)
				assert.Equal(t, apperror.KindUnauthorized, env.Error.Kind)
			}
		})
	}
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		kind      apperror.Kind
		retryable bool
	}{
		{name: "busy", err: apperror.Busy("session s1 is busy"), status: fiber.StatusLocked, kind: apperror.KindBusy, retryable: true},
		{name: "oracle", err: apperror.OracleUnavailable(errors.New("timeout")).WithDetail("text", "hello"), status: fiber.StatusServiceUnavailable, kind: apperror.KindOracleUnavailable, retryable: true},
		{name: "invalid state", err: apperror.InvalidState("nope"), status: fiber.StatusConflict, kind: apperror.KindInvalidState},
		{name: "fiber not found", err: fiber.ErrNotFound, status: fiber.StatusNotFound, kind: apperror.KindNotFound},
		{name: "plain error", err: errors.New("db down"), status: fiber.StatusInternalServerError, kind: apperror.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			env := decodeEnvelope(t, resp)
			assert.Equal(t, tt.kind, env.Error.Kind)
			assert.Equal(t, tt.retryable, env.Error.Retryable)
			assert.Equal(t, tt.status, env.Code)
			if tt.kind == apperror.KindOracleUnavailable {
				assert.Equal(t, "hello", env.Error.Details["text"])
			}
			if tt.kind == apperror.KindInternal {
				assert.NotContains(t, env.Message, "db down")
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Text  string `json:"text" validate:"required"`
		Phone string `json:"phone_number" validate:"omitempty,e164"`
	}

	assert.NoError(t, ValidateRequest(payload{Text: "hi"}))

	err := ValidateRequest(payload{Phone: "12"})
	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidationFailed, appErr.Kind)
	fields := appErr.Details["fields"].(map[string]interface{})
	assert.Equal(t, "required", fields["text"])
	assert.Equal(t, "e164", fields["phone_number"])
}
