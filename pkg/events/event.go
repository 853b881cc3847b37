package events

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted event name, e.g. "case.materialized".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	SessionStarted      = "session.started"
	SessionTransitioned = "session.transitioned"
	SessionDeleted      = "session.deleted"
	CaseMaterialized    = "case.materialized"
	DocumentGenerated   = "document.generated"
)

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Encode renders any Event in the wire envelope shared by the in-process bus
// and NATS.
func Encode(e Event) ([]byte, error) {
	b, err := sonic.Marshal(BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.EventType(), err)
	}
	return b, nil
}

func Decode(b []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := sonic.Unmarshal(b, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}

// String reads a string entry from the payload.
func String(e Event, key string) string {
	s, _ := e.Payload()[key].(string)
	return s
}
