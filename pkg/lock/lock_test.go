package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLocker(client, ttl), mr
}

func TestLockers(t *testing.T) {
	redisLocker, _ := newRedisLocker(t, time.Minute)
	lockers := map[string]Locker{
		"memory": NewMemoryLocker(),
		"redis":  redisLocker,
	}

	for name, l := range lockers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			release, err := l.TryLock(ctx, "session-1")
			require.NoError(t, err)

			_, err = l.TryLock(ctx, "session-1")
			assert.ErrorIs(t, err, ErrHeld)

			other, err := l.TryLock(ctx, "session-2")
			require.NoError(t, err)
			other()

			release()
			release()

			again, err := l.TryLock(ctx, "session-1")
			require.NoError(t, err)
			again()
		})
	}
}

func TestMemoryLockerSingleWinner(t *testing.T) {
	l := NewMemoryLocker()
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := l.TryLock(context.Background(), "hot"); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryLockerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryLocker().TryLock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisLockerExpiry(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)
	ctx := context.Background()

	stale, err := l.TryLock(ctx, "session-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := l.TryLock(ctx, "session-1")
	require.NoError(t, err)

	// The expired holder must not release the new holder's lock.
	stale()
	_, err = l.TryLock(ctx, "session-1")
	assert.ErrorIs(t, err, ErrHeld)

	fresh()
	assert.False(t, mr.Exists("lock:session-1"))
}

func TestRedisLockerOutlivesTTLWhileHeld(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t, 3*time.Second)
	l.refresh = 20 * time.Millisecond

	release, err := l.TryLock(ctx, "session:s1")
	require.NoError(t, err)

	// Long transitions span several TTLs; the holder keeps extending.
	for i := 0; i < 3; i++ {
		mr.FastForward(2 * time.Second)
		require.Eventually(t, func() bool {
			return mr.TTL("lock:session:s1") > 2*time.Second
		}, time.Second, 10*time.Millisecond)
	}
	mr.FastForward(2 * time.Second)

	_, err = l.TryLock(ctx, "session:s1")
	assert.ErrorIs(t, err, ErrHeld)

	release()
	assert.False(t, mr.Exists("lock:session:s1"))

	again, err := l.TryLock(ctx, "session:s1")
	require.NoError(t, err)
	again()
}

func TestRedisLockerExpiresAfterCrashedHolder(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t, 3*time.Second)
	l.refresh = time.Hour

	_, err := l.TryLock(ctx, "session:s1")
	require.NoError(t, err)

	mr.FastForward(4 * time.Second)

	release, err := l.TryLock(ctx, "session:s1")
	require.NoError(t, err)
	release()
}
