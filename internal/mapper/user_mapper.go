package mapper

import (
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                u.Id,
		PhoneNumber:       u.PhoneNumber,
		Email:             u.Email,
		FullName:          u.FullName,
		PasswordHash:      u.PasswordHash,
		PreferredLanguage: u.PreferredLanguage,
		Role:              entity.UserRole(u.Role),
		Status:            entity.UserStatus(u.Status),
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                u.Id,
		PhoneNumber:       u.PhoneNumber,
		Email:             u.Email,
		FullName:          u.FullName,
		PasswordHash:      u.PasswordHash,
		PreferredLanguage: u.PreferredLanguage,
		Role:              string(u.Role),
		Status:            string(u.Status),
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
