package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	MarkDelivered(ctx context.Context, notificationID uuid.UUID, at time.Time) error
}
