package cache_test

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
)

func settingsFor(t *testing.T, mr *miniredis.Miniredis) config.Cache {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.Cache{
		Host:           mr.Host(),
		Port:           port,
		DB:             0,
		TimeoutSeconds: 60,
		RetryAttempts:  1,
	}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOptions(t *testing.T) {
	cfg := config.Cache{
		Host:                        "redis.internal",
		Port:                        6380,
		DB:                          2,
		Password:                    "s3cret",
		SocketConnectTimeoutSeconds: 5,
		SocketTimeoutSeconds:        7,
	}

	opt := cache.Options(cfg)

	assert.Equal(t, "redis.internal:6380", opt.Addr)
	assert.Equal(t, 2, opt.DB)
	assert.Equal(t, "s3cret", opt.Password)
	assert.Equal(t, 5*time.Second, opt.DialTimeout)
	assert.Equal(t, 7*time.Second, opt.ReadTimeout)
	assert.Equal(t, 7*time.Second, opt.WriteTimeout)
	assert.Equal(t, -1, opt.MaxRetries)

	cfg.RetryOnTimeout = true
	assert.Zero(t, cache.Options(cfg).MaxRetries, "go-redis default retries apply")
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := cache.Connect(context.Background(), settingsFor(t, mr))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	assert.NoError(t, cache.Healthcheck(client)(context.Background()))
}

func TestConnect_notReady(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := settingsFor(t, mr)
	cfg.RetryAttempts = 2
	cfg.RetryInterval = time.Millisecond
	mr.Close()

	_, err := cache.Connect(context.Background(), cfg)

	assert.ErrorIs(t, err, cache.ErrNotReady)
}

func TestHealthcheck_failure(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), settingsFor(t, mr))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	mr.SetError("LOADING")

	assert.ErrorIs(t, cache.Healthcheck(client)(context.Background()), cache.ErrHealthcheckFailed)
}

func TestCache_SetGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := settingsFor(t, mr)
	client, err := cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	c := cache.New(client, cfg, discard())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.Equal(t, time.Minute, mr.TTL("k"), "zero ttl uses CACHES_TIMEOUT")

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCache_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := settingsFor(t, mr)
	client, err := cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	c := cache.New(client, cfg, discard())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 2*time.Second))
	mr.FastForward(3 * time.Second)

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCache_IgnoreExceptions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := settingsFor(t, mr)
	client, err := cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	ctx := context.Background()

	strict := cache.New(client, cfg, discard())
	cfg.IgnoreExceptions = true
	lenient := cache.New(client, cfg, discard())

	mr.SetError("READONLY")

	assert.Error(t, strict.Set(ctx, "k", []byte("v"), 0))
	assert.NoError(t, lenient.Set(ctx, "k", []byte("v"), 0))
	_, err = lenient.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
