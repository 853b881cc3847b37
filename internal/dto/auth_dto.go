package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	PhoneNumber       string `json:"phone_number" validate:"required,min=10,max=16"`
	FullName          string `json:"full_name" validate:"required,min=2"`
	Password          string `json:"password" validate:"required,min=8"`
	Email             string `json:"email" validate:"omitempty,email"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,len=2"`
}

type RegisterResponse struct {
	Id          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phone_number"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id                uuid.UUID `json:"id"`
	PhoneNumber       string    `json:"phone_number"`
	Email             string    `json:"email,omitempty"`
	FullName          string    `json:"full_name"`
	PreferredLanguage string    `json:"preferred_language"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
