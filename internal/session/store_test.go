package session_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starter-api/backend/internal/cache"
	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/session"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// newCacheStore returns a CacheStore over a fresh miniredis server.
func newCacheStore(t *testing.T) (*session.CacheStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := config.Cache{Host: mr.Host(), Port: port, TimeoutSeconds: 60, RetryAttempts: 1}
	client, err := cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return session.NewCacheStore(cache.New(client, cfg, discard())), mr
}

func TestStores(t *testing.T) {
	cacheStore, _ := newCacheStore(t)
	stores := map[string]session.Store{
		"cache":  cacheStore,
		"memory": session.NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Load(ctx, "missing")
			require.ErrorIs(t, err, session.ErrNotFound)

			require.NoError(t, store.Save(ctx, "abc", map[string]any{"n": "v"}, time.Hour))
			got, err := store.Load(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, "v", got["n"])

			require.NoError(t, store.Delete(ctx, "abc"))
			_, err = store.Load(ctx, "abc")
			assert.ErrorIs(t, err, session.ErrNotFound)
		})
	}
}

func TestCacheStore_keyAndTTL(t *testing.T) {
	store, mr := newCacheStore(t)

	require.NoError(t, store.Save(context.Background(), "abc", map[string]any{"a": 1}, 90*time.Second))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, 90*time.Second, mr.TTL("session:abc"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(context.Background(), "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCacheStore_corruptEntry(t *testing.T) {
	store, mr := newCacheStore(t)
	require.NoError(t, mr.Set("session:abc", "{not json"))

	_, err := store.Load(context.Background(), "abc")

	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_expiry(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", map[string]any{"a": 1}, -time.Second))

	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
