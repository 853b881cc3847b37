package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User is an account. The id doubles as the intake principal.
type User struct {
	Id                uuid.UUID
	PhoneNumber       string
	Email             *string
	FullName          string
	PasswordHash      string
	PreferredLanguage string
	Role              UserRole
	Status            UserStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
