// Package reference issues human-readable case reference numbers of the form
// LDA-<year>-<6 digit sequence>.
package reference

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const prefix = "LDA"

type Generator interface {
	Next(ctx context.Context) (string, error)
	// Resume makes the sequence for year continue after seq. It never moves
	// a counter backwards.
	Resume(ctx context.Context, year int, seq int64) error
}

func Format(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

// YearPrefix is the common prefix of every reference issued in year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// Parse splits a reference into its year and sequence.
func Parse(ref string) (int, int64, bool) {
	parts := strings.Split(ref, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 0 {
		return 0, 0, false
	}
	return year, seq, true
}

// AtomicGenerator is a process-local counter per year. It starts empty, so
// callers resume it from the case store at startup.
type AtomicGenerator struct {
	mu   sync.Mutex
	last map[int]int64
	now  func() time.Time
}

func NewAtomicGenerator() *AtomicGenerator {
	return &AtomicGenerator{last: map[int]int64{}, now: time.Now}
}

func (g *AtomicGenerator) Next(ctx context.Context) (string, error) {
	year := g.now().Year()

	g.mu.Lock()
	g.last[year]++
	seq := g.last[year]
	g.mu.Unlock()

	return Format(year, seq), nil
}

func (g *AtomicGenerator) Resume(_ context.Context, year int, seq int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq > g.last[year] {
		g.last[year] = seq
	}
	return nil
}

// Raises the counter to ARGV[1] unless it is already past it.
var resumeScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if tonumber(ARGV[1]) > current then
	redis.call("SET", KEYS[1], ARGV[1])
end
return 0
`)

// RedisGenerator shares one counter per year across replicas.
type RedisGenerator struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisGenerator(client *redis.Client) *RedisGenerator {
	return &RedisGenerator{client: client, now: time.Now}
}

func (g *RedisGenerator) Next(ctx context.Context) (string, error) {
	year := g.now().Year()
	seq, err := g.client.Incr(ctx, counterKey(year)).Result()
	if err != nil {
		return "", fmt.Errorf("increment reference counter: %w", err)
	}
	return Format(year, seq), nil
}

func (g *RedisGenerator) Resume(ctx context.Context, year int, seq int64) error {
	if err := resumeScript.Run(ctx, g.client, []string{counterKey(year)}, seq).Err(); err != nil {
		return fmt.Errorf("resume reference counter: %w", err)
	}
	return nil
}

func counterKey(year int) string {
	return fmt.Sprintf("reference:%d", year)
}
