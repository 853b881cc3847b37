package mapper

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	var metadata map[string]interface{}
	if len(n.Metadata) > 0 {
		// Metadata is informational; a bad row still lists.
		_ = sonic.Unmarshal(n.Metadata, &metadata)
	}
	return &entity.Notification{
		Id:          n.ID,
		UserId:      n.UserID,
		TypeCode:    n.TypeCode,
		Channel:     entity.NotificationChannel(n.Channel),
		Title:       n.Title,
		Message:     n.Message,
		CaseId:      n.CaseID,
		Metadata:    metadata,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		DeliveredAt: n.DeliveredAt,
		CreatedAt:   n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) (*model.Notification, error) {
	if n == nil {
		return nil, nil
	}
	var metadata datatypes.JSON
	if len(n.Metadata) > 0 {
		raw, err := sonic.Marshal(n.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = datatypes.JSON(raw)
	}
	return &model.Notification{
		ID:          n.Id,
		UserID:      n.UserId,
		TypeCode:    n.TypeCode,
		Channel:     string(n.Channel),
		CaseID:      n.CaseId,
		Title:       n.Title,
		Message:     n.Message,
		Metadata:    metadata,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		DeliveredAt: n.DeliveredAt,
		CreatedAt:   n.CreatedAt,
	}, nil
}
