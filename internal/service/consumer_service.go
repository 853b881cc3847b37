package service

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/metrics"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/events"
)

// EventHandler reacts to one domain event. Handlers must be idempotent: a
// failed handler causes the whole event to be retried.
type EventHandler func(ctx context.Context, event events.Event) error

type IConsumerService interface {
	Consume(ctx context.Context) error
}

const (
	relayAttempts = 3
	relayBackoff  = 200 * time.Millisecond
)

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	handlers   []EventHandler
	audit      logger.ILogger
	metrics    *metrics.Metrics
}

// NewConsumerService relays events from the in-process bus to handlers.
// Every event is written to the audit logger whether or not a handler
// accepts it.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	audit logger.ILogger,
	m *metrics.Metrics,
	handlers ...EventHandler,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		handlers:   handlers,
		audit:      audit,
		metrics:    m,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.audit.Error("EVENTS", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		cs.metrics.EventsRelayed.WithLabelValues("unknown", "dropped").Inc()
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	cs.audit.Info("EVENTS", "Event received", map[string]interface{}{
		"message_id": msg.UUID,
		"type":       event.Type,
		"data":       event.Data,
	})

	var lastErr error
	for attempt := 1; attempt <= relayAttempts; attempt++ {
		if lastErr = cs.dispatch(ctx, event); lastErr == nil {
			break
		}
		cs.audit.Warn("EVENTS", "Event handler failed", map[string]interface{}{
			"type":    event.Type,
			"attempt": attempt,
			"error":   lastErr.Error(),
		})
		select {
		case <-ctx.Done():
			msg.Nack()
			return
		case <-time.After(time.Duration(attempt) * relayBackoff):
		}
	}

	if lastErr != nil {
		cs.audit.Error("EVENTS", "Giving up on event", map[string]interface{}{
			"type":  event.Type,
			"error": lastErr.Error(),
		})
		cs.metrics.EventsRelayed.WithLabelValues(event.Type, "failed").Inc()
		msg.Ack()
		return
	}

	cs.metrics.EventsRelayed.WithLabelValues(event.Type, "ok").Inc()
	msg.Ack()
}

func (cs *consumerService) dispatch(ctx context.Context, event events.Event) error {
	for _, h := range cs.handlers {
		if err := h(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
