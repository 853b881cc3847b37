package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedYear(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC) }
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "LDA-2026-000001", Format(2026, 1))
	assert.Equal(t, "LDA-2026-123456", Format(2026, 123456))
}

func TestAtomicGenerator(t *testing.T) {
	g := NewAtomicGenerator()
	g.now = fixedYear(2026)

	first, err := g.Next(context.Background())
	require.NoError(t, err)
	second, err := g.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "LDA-2026-000001", first)
	assert.Equal(t, "LDA-2026-000002", second)
}

func TestParse(t *testing.T) {
	tests := []struct {
		ref  string
		year int
		seq  int64
		ok   bool
	}{
		{"LDA-2026-000042", 2026, 42, true},
		{"LDA-2026-1000001", 2026, 1000001, true},
		{"ABC-2026-000042", 0, 0, false},
		{"LDA-2026", 0, 0, false},
		{"LDA-year-000001", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			year, seq, ok := Parse(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.seq, seq)
		})
	}
}

func TestAtomicGeneratorResumesAfterRestart(t *testing.T) {
	ctx := context.Background()

	before := NewAtomicGenerator()
	before.now = fixedYear(2026)
	for i := 0; i < 3; i++ {
		_, err := before.Next(ctx)
		require.NoError(t, err)
	}

	// A fresh process sees only what the case store holds.
	after := NewAtomicGenerator()
	after.now = fixedYear(2026)
	require.NoError(t, after.Resume(ctx, 2026, 3))
	require.NoError(t, after.Resume(ctx, 2026, 1))

	ref, err := after.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LDA-2026-000004", ref)

	after.now = fixedYear(2027)
	ref, err = after.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LDA-2027-000001", ref)
}

func TestRedisGeneratorResume(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	g := NewRedisGenerator(client)
	g.now = fixedYear(2026)

	require.NoError(t, g.Resume(ctx, 2026, 41))
	ref, err := g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LDA-2026-000042", ref)

	require.NoError(t, g.Resume(ctx, 2026, 10))
	ref, err = g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LDA-2026-000043", ref)
}

func TestRedisGenerator(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	a := NewRedisGenerator(client)
	a.now = fixedYear(2026)
	b := NewRedisGenerator(client)
	b.now = fixedYear(2026)

	ref1, err := a.Next(context.Background())
	require.NoError(t, err)
	ref2, err := b.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "LDA-2026-000001", ref1)
	assert.Equal(t, "LDA-2026-000002", ref2)

	b.now = fixedYear(2027)
	ref3, err := b.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LDA-2027-000001", ref3)
}

func TestRedisGeneratorUnavailable(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectIncr("reference:2026").SetErr(errors.New("connection refused"))

	g := NewRedisGenerator(client)
	g.now = fixedYear(2026)
	_, err := g.Next(context.Background())

	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
