package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
)

func attach(t *testing.T, h *Hub, userID uuid.UUID) *Client {
	t.Helper()
	c := &Client{Hub: h, UserID: userID, Send: make(chan []byte, sendBuffer)}
	h.register <- c
	require.Eventually(t, func() bool { return h.Connected(userID) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return envelope{}
	}
}

func TestHubDeliversToOwnerOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run(ctx)

	owner, other := uuid.New(), uuid.New()
	phone := attach(t, h, owner)
	laptop := attach(t, h, owner)
	stranger := attach(t, h, other)

	h.Send(owner, dto.NotificationResponse{Title: "Document ready"})

	assert.Equal(t, "Document ready", receive(t, phone).Data.Title)
	assert.Equal(t, "notification", receive(t, laptop).Type)
	assert.Len(t, stranger.Send, 0)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run(ctx)

	userID := uuid.New()
	c := attach(t, h, userID)
	h.unregister <- c

	require.Eventually(t, func() bool { return h.Connected(userID) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHubFansOutThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Two instances sharing one Redis.
	a := NewHub(redis.NewClient(&redis.Options{Addr: mr.Addr()}), logger.NewNopLogger())
	b := NewHub(redis.NewClient(&redis.Options{Addr: mr.Addr()}), logger.NewNopLogger())
	go a.Run(ctx)
	go b.Run(ctx)

	userID := uuid.New()
	onB := attach(t, b, userID)
	require.Eventually(t, func() bool { return mr.PubSubNumSub(ClusterChannel)[ClusterChannel] == 2 }, 2*time.Second, 10*time.Millisecond)

	a.Send(userID, dto.NotificationResponse{Title: "Case registered"})

	assert.Equal(t, "Case registered", receive(t, onB).Data.Title)
}
