package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/mailer"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/implementation"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/events"
	pktNats "github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/nats"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/notify"
)

const (
	typeCaseCreated   = "CASE_CREATED"
	typeDocumentReady = "DOCUMENT_READY"
)

type INotificationService interface {
	// HandleEvent turns case lifecycle events into notifications. Unknown
	// event types are ignored.
	HandleEvent(ctx context.Context, event events.Event) error
	// Start subscribes to the durable event stream when one is configured.
	Start(ctx context.Context) error

	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

// NotificationDelivery pushes in-app notifications to connected clients.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.NotificationResponse)
}

type notificationService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	sms          notify.SMSSender
	subscriber   *pktNats.Subscriber
	delivery     NotificationDelivery
	logger       logger.ILogger
	now          func() time.Time
}

// NewNotificationService builds the service. subscriber may be nil, in
// which case events reach HandleEvent through the in-process relay. delivery
// may be nil when no live channel is served.
func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	sms notify.SMSSender,
	subscriber *pktNats.Subscriber,
	delivery NotificationDelivery,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory:   uowFactory,
		emailService: emailService,
		sms:          sms,
		subscriber:   subscriber,
		delivery:     delivery,
		logger:       log,
		now:          time.Now,
	}
}

func (s *notificationService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	if err := s.subscriber.Subscribe(ctx, events.CaseMaterialized, "notify-case-materialized", s.HandleEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.CaseMaterialized, err)
	}
	if err := s.subscriber.Subscribe(ctx, events.DocumentGenerated, "notify-document-generated", s.HandleEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.DocumentGenerated, err)
	}
	s.logger.Info("NOTIFY", "Notification service listening", map[string]interface{}{
		"events": []string{events.CaseMaterialized, events.DocumentGenerated},
	})
	return nil
}

func (s *notificationService) HandleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.CaseMaterialized, events.DocumentGenerated:
	default:
		return nil
	}

	user, err := s.recipient(ctx, events.String(event, "principal"))
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.Debug("NOTIFY", "No account for principal, skipping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	var caseID *uuid.UUID
	if id, err := uuid.Parse(events.String(event, "case_id")); err == nil {
		caseID = &id
	}
	ref := events.String(event, "reference_number")

	if event.EventType() == events.CaseMaterialized {
		return s.record(ctx, &entity.Notification{
			UserId:   user.Id,
			TypeCode: typeCaseCreated,
			Channel:  entity.ChannelInApp,
			Title:    "Case registered",
			Message:  fmt.Sprintf("Your case %s has been registered.", ref),
			CaseId:   caseID,
			Metadata: map[string]interface{}{"reference_number": ref, "issue_type": events.String(event, "issue_type")},
		})
	}

	title := events.String(event, "document_title")
	authority := events.String(event, "authority")
	message := fmt.Sprintf("Your %s for case %s is ready to download.", title, ref)
	if authority != "" {
		message += " Submit it to the " + authority + "."
	}
	meta := map[string]interface{}{
		"reference_number": ref,
		"document_id":      events.String(event, "document_id"),
	}

	if err := s.record(ctx, &entity.Notification{
		UserId:   user.Id,
		TypeCode: typeDocumentReady,
		Channel:  entity.ChannelInApp,
		Title:    "Document ready",
		Message:  message,
		CaseId:   caseID,
		Metadata: meta,
	}); err != nil {
		return err
	}

	if user.Email != nil && *user.Email != "" {
		s.deliver(ctx, &entity.Notification{
			UserId: user.Id, TypeCode: typeDocumentReady, Channel: entity.ChannelEmail,
			Title: "Document ready", Message: message, CaseId: caseID, Metadata: meta,
		}, func() error {
			return s.emailService.SendCaseReady(ctx, *user.Email, mailer.CaseReadyMail{
				FullName:        user.FullName,
				ReferenceNumber: ref,
				IssueType:       events.String(event, "issue_type"),
				DocumentTitle:   title,
				Authority:       authority,
			})
		})
	}

	if user.PhoneNumber != "" {
		s.deliver(ctx, &entity.Notification{
			UserId: user.Id, TypeCode: typeDocumentReady, Channel: entity.ChannelSMS,
			Title: "Document ready", Message: message, CaseId: caseID, Metadata: meta,
		}, func() error {
			return s.sms.SendSMS(ctx, user.PhoneNumber, message)
		})
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository()
	items, total, err := repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationResponse(n))
	}
	return &dto.NotificationListResponse{Items: out, Total: total, Unread: unread}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAsRead(ctx, userID, notificationID)
	if errors.Is(err, implementation.ErrNotificationNotFound) {
		return apperror.NotFound("notification %s not found", notificationID)
	}
	return err
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllAsRead(ctx, userID)
}

// recipient resolves a principal to an account. Principals are account ids;
// a bare phone number is accepted for sessions opened before sign-up.
func (s *notificationService) recipient(ctx context.Context, principal string) (*entity.User, error) {
	if principal == "" {
		return nil, nil
	}
	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()
	if id, err := uuid.Parse(principal); err == nil {
		return repo.FindOne(ctx, specification.ByID{ID: id}, specification.ActiveUsers{})
	}
	phone, err := notify.NormalizePhone(principal)
	if err != nil {
		return nil, nil
	}
	return repo.FindOne(ctx, specification.ByPhone{Phone: phone}, specification.ActiveUsers{})
}

func (s *notificationService) record(ctx context.Context, n *entity.Notification) error {
	n.Id = uuid.New()
	n.CreatedAt = s.now()
	if n.Channel == entity.ChannelInApp {
		at := n.CreatedAt
		n.DeliveredAt = &at
	}
	if err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if n.Channel == entity.ChannelInApp && s.delivery != nil {
		s.delivery.Send(n.UserId, toNotificationResponse(n))
	}
	return nil
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		Id:        n.Id,
		TypeCode:  n.TypeCode,
		Channel:   string(n.Channel),
		Title:     n.Title,
		Message:   n.Message,
		CaseId:    n.CaseId,
		Metadata:  n.Metadata,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// deliver records an outbound notification and sends it. Send failures are
// logged and leave the row undelivered.
func (s *notificationService) deliver(ctx context.Context, n *entity.Notification, send func() error) {
	if err := s.record(ctx, n); err != nil {
		s.logger.Error("NOTIFY", "Failed to record notification", map[string]interface{}{"channel": string(n.Channel), "error": err.Error()})
		return
	}
	if err := send(); err != nil {
		s.logger.Warn("NOTIFY", "Delivery failed", map[string]interface{}{
			"channel":         string(n.Channel),
			"notification_id": n.Id.String(),
			"error":           err.Error(),
		})
		return
	}
	if err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkDelivered(ctx, n.Id, s.now()); err != nil {
		s.logger.Warn("NOTIFY", "Failed to mark notification delivered", map[string]interface{}{"notification_id": n.Id.String(), "error": err.Error()})
	}
}
