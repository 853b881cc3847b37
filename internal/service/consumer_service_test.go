package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/metrics"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/events"
)

const testTopic = "intake.events"

func newBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
}

func TestEventRelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus()
	defer bus.Close()
	m := metrics.New()

	var mu sync.Mutex
	var seen []string
	failures := 1
	handled := make(chan struct{}, 4)

	flaky := func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		if e.EventType() == events.CaseMaterialized && failures > 0 {
			failures--
			return errors.New("downstream unavailable")
		}
		seen = append(seen, e.EventType()+":"+events.String(e, "case_id"))
		handled <- struct{}{}
		return nil
	}

	relay := NewConsumerService(bus, testTopic, logger.NewNopLogger(), m, flaky)
	require.NoError(t, relay.Consume(ctx))

	publisher := NewPublisherService(testTopic, bus)
	require.NoError(t, publisher.Publish(ctx, events.New(events.CaseMaterialized, map[string]interface{}{"case_id": "c-1"})))
	require.NoError(t, publisher.Publish(ctx, events.New(events.DocumentGenerated, map[string]interface{}{"case_id": "c-1"})))

	for i := 0; i < 2; i++ {
		select {
		case <-handled:
		case <-time.After(5 * time.Second):
			t.Fatal("event was not relayed")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"case.materialized:c-1", "document.generated:c-1"}, seen)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsRelayed.WithLabelValues(events.CaseMaterialized, "ok")))
}

func TestEventRelayDropsGarbage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus()
	defer bus.Close()
	m := metrics.New()

	called := false
	relay := NewConsumerService(bus, testTopic, logger.NewNopLogger(), m, func(context.Context, events.Event) error {
		called = true
		return nil
	})
	require.NoError(t, relay.Consume(ctx))

	require.NoError(t, bus.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.EventsRelayed.WithLabelValues("unknown", "dropped")) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, called)
}
