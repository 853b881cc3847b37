package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in_app"
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

type Notification struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	TypeCode    string
	Channel     NotificationChannel
	Title       string
	Message     string
	CaseId      *uuid.UUID
	Metadata    map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time
}
