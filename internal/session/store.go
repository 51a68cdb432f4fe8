// Package session implements cookie-identified server-side sessions.
// Session data is a JSON object kept in a Store under a random UUID; the
// browser only ever holds the id.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/starter-api/backend/internal/cache"
)

// ErrNotFound is returned by Store.Load for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists session data.
type Store interface {
	Load(ctx context.Context, id string) (map[string]any, error)
	Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// keyPrefix namespaces session entries in the shared cache.
const keyPrefix = "session:"

// CacheStore keeps sessions in the Redis cache.
type CacheStore struct {
	cache *cache.Cache
}

// NewCacheStore returns a Store backed by c.
func NewCacheStore(c *cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Load(ctx context.Context, id string) (map[string]any, error) {
	b, err := s.cache.Get(ctx, keyPrefix+id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session.CacheStore.Load: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		// Corrupt entries behave like expired ones.
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *CacheStore) Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session.CacheStore.Save: %w", err)
	}
	if err := s.cache.Set(ctx, keyPrefix+id, b, ttl); err != nil {
		return fmt.Errorf("session.CacheStore.Save: %w", err)
	}
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("session.CacheStore.Delete: %w", err)
	}
	return nil
}

// MemoryStore keeps sessions in process memory. Expired entries are
// dropped lazily on access.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	data      map[string]any
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(item.expiresAt) {
		delete(s.items, id)
		return nil, ErrNotFound
	}
	return maps.Clone(item.data), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data map[string]any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = memoryItem{data: maps.Clone(data), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}
