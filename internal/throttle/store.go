package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts requests in fixed windows.
type Store interface {
	// Increment adds one hit to key and returns the hit count of the
	// current window. The counter expires after window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisStore keeps counters in Redis so every instance shares them.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore returns a Store backed by client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("throttle.RedisStore.Increment: %w", err)
	}
	return incr.Val(), nil
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]counter
	sweptAt  time.Time
	now      func() time.Time
}

type counter struct {
	hits      int64
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: map[string]counter{}, now: time.Now}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := s.counters[key]
	if !now.Before(c.expiresAt) {
		c = counter{}
		if now.Sub(s.sweptAt) >= window {
			s.sweep(now)
		}
	}
	c.hits++
	c.expiresAt = now.Add(window)
	s.counters[key] = c
	return c.hits, nil
}

// sweep drops expired counters. Increment runs it at most once per window
// so new clients do not each pay for a full scan.
func (s *MemoryStore) sweep(now time.Time) {
	for k, v := range s.counters {
		if !now.Before(v.expiresAt) {
			delete(s.counters, k)
		}
	}
	s.sweptAt = now
}
