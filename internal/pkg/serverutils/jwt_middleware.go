package serverutils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

const userIDKey = "user_id"

// NewJwtMiddleware verifies the bearer token and stores its user_id claim.
// The claim is the only source of the request principal.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return apperror.New(apperror.KindUnauthorized, "missing token")
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return apperror.New(apperror.KindUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return apperror.New(apperror.KindUnauthorized, "invalid claims")
		}
		userID, _ := claims[userIDKey].(string)
		if strings.TrimSpace(userID) == "" {
			return apperror.New(apperror.KindUnauthorized, "token has no user_id")
		}

		ctx.Locals(userIDKey, userID)
		return ctx.Next()
	}
}

// IssueToken signs an HS256 token carrying userID.
func IssueToken(secret, userID string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		userIDKey: userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Principal returns the authenticated caller set by NewJwtMiddleware.
func Principal(ctx *fiber.Ctx) (intake.Principal, error) {
	userID, ok := ctx.Locals(userIDKey).(string)
	if !ok || userID == "" {
		return "", apperror.New(apperror.KindUnauthorized, "unauthenticated")
	}
	return intake.Principal(userID), nil
}
