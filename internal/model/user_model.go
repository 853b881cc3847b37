package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PhoneNumber       string         `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email             *string        `gorm:"type:varchar(255);index"`
	FullName          string         `gorm:"type:varchar(255);not null"`
	PasswordHash      string         `gorm:"type:varchar(255);not null"`
	PreferredLanguage string         `gorm:"type:varchar(10);not null;default:'en'"`
	Role              string         `gorm:"type:varchar(50);not null;default:'user'"`
	Status            string         `gorm:"type:varchar(50);not null;default:'active'"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
