package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/notify"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	jwtSecret  string
	jwtTTL     time.Duration
	logger     logger.ILogger
	now        func() time.Time
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtSecret string, jwtTTL time.Duration, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
		jwtTTL:     jwtTTL,
		logger:     log,
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	phone, err := notify.NormalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, apperror.ValidationFailed("invalid phone number").WithDetail("fields", map[string]string{"phone_number": "phone"})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Check for existing user
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByPhone{Phone: phone})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.KindConflict, "phone number already registered")
	}
	email := strings.TrimSpace(req.Email)
	if email != "" {
		taken, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, apperror.New(apperror.KindConflict, "email already registered")
		}
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		Id:                uuid.New(),
		PhoneNumber:       phone,
		FullName:          strings.TrimSpace(req.FullName),
		PasswordHash:      string(hash),
		PreferredLanguage: req.PreferredLanguage,
		Role:              entity.UserRoleUser,
		Status:            entity.UserStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.PreferredLanguage == "" {
		user.PreferredLanguage = "en"
	}
	if email != "" {
		user.Email = &email
	}

	// 3. Save to DB
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id.String()})

	return &dto.RegisterResponse{
		Id:          user.Id,
		PhoneNumber: user.PhoneNumber,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	invalid := apperror.New(apperror.KindUnauthorized, "invalid phone number or password")

	phone, err := notify.NormalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, invalid
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByPhone{Phone: phone})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, apperror.Forbidden("account is blocked")
	}

	now := s.now()
	token, err := serverutils.IssueToken(s.jwtSecret, user.Id.String(), s.jwtTTL, now)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(s.jwtTTL),
		User:      toUserResponse(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", userID)
	}
	res := toUserResponse(user)
	return &res, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	res := dto.UserResponse{
		Id:                u.Id,
		PhoneNumber:       u.PhoneNumber,
		FullName:          u.FullName,
		PreferredLanguage: u.PreferredLanguage,
	}
	if u.Email != nil {
		res.Email = *u.Email
	}
	return res
}
