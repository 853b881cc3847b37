package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

const testSecret = "test-secret"

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewAuthService(st, testSecret, time.Hour, logger.NewNopLogger())

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		PhoneNumber: "98765 43210",
		FullName:    " Rahul Kumar ",
		Password:    "correct horse",
		Email:       "rahul@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", reg.PhoneNumber)

	stored := st.users[reg.Id]
	require.NotNil(t, stored)
	assert.Equal(t, "Rahul Kumar", stored.FullName)
	assert.Equal(t, "en", stored.PreferredLanguage)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)

	_, err = svc.Register(ctx, &dto.RegisterRequest{PhoneNumber: "+919876543210", FullName: "Someone", Password: "another one"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = svc.Register(ctx, &dto.RegisterRequest{PhoneNumber: "9123456780", FullName: "Someone", Password: "another one", Email: "rahul@example.com"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	login, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "9876543210", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.Id, login.User.Id)
	assert.Equal(t, "rahul@example.com", login.User.Email)

	token, err := jwt.Parse(login.Token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.Id.String(), claims["user_id"])

	me, err := svc.Me(ctx, reg.Id)
	require.NoError(t, err)
	assert.Equal(t, "Rahul Kumar", me.FullName)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewAuthService(st, testSecret, time.Hour, logger.NewNopLogger())

	reg, err := svc.Register(ctx, &dto.RegisterRequest{PhoneNumber: "9876543210", FullName: "Rahul", Password: "correct horse"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		phone string
		pass  string
		kind  apperror.Kind
	}{
		{"wrong password", "9876543210", "wrong password", apperror.KindUnauthorized},
		{"unknown phone", "9123456789", "correct horse", apperror.KindUnauthorized},
		{"malformed phone", "12", "correct horse", apperror.KindUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: tt.phone, Password: tt.pass})
			assert.True(t, apperror.IsKind(err, tt.kind), "got %v", err)
		})
	}

	t.Run("blocked account", func(t *testing.T) {
		st.users[reg.Id].Status = entity.UserStatusBlocked
		_, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "9876543210", Password: "correct horse"})
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	})

	_, err = svc.Register(ctx, &dto.RegisterRequest{PhoneNumber: "abc", FullName: "X", Password: "whatever1"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidationFailed))
}
