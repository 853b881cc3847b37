package model

import (
	"time"

	"gorm.io/datatypes"
)

// IntakeSession stores the full session snapshot as JSON next to the
// columns the sweeper and ownership checks query on.
type IntakeSession struct {
	Id             string         `gorm:"type:varchar(64);primaryKey"`
	Principal      string         `gorm:"type:varchar(255);not null;index"`
	State          string         `gorm:"type:varchar(32);not null"`
	Domain         string         `gorm:"type:varchar(64)"`
	Snapshot       datatypes.JSON `gorm:"type:jsonb;not null"`
	CaseId         *string        `gorm:"type:varchar(64)"`
	CreatedAt      time.Time      `gorm:"not null"`
	LastActivityAt time.Time      `gorm:"not null;index"`
}

func (IntakeSession) TableName() string {
	return "intake_sessions"
}
