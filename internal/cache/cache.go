// Package cache connects to the Redis cache and wraps it with the
// settings-driven defaults used by the rest of the application: a default
// entry timeout and, optionally, swallowing cache failures.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/starter-api/backend/internal/config"
)

var (
	ErrNotReady          = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")
)

// Options translates cache settings into go-redis client options. Only
// the options that are set are applied.
func Options(cfg config.Cache) *redis.Options {
	opt := &redis.Options{
		Addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		DB:   cfg.DB,
	}

	o := cfg.Options()
	if p := o.Password.Value(); p != "" {
		opt.Password = p
	}
	if o.SocketConnectTimeout > 0 {
		opt.DialTimeout = o.SocketConnectTimeout
	}
	if o.SocketTimeout > 0 {
		opt.ReadTimeout = o.SocketTimeout
		opt.WriteTimeout = o.SocketTimeout
	}
	if !o.RetryOnTimeout {
		// -1 disables command retries in go-redis.
		opt.MaxRetries = -1
	}
	return opt
}

// Connect establishes a connection to the Redis server described by cfg.
// It attempts to connect cfg.RetryAttempts times, waiting
// cfg.RetryInterval between attempts.
func Connect(ctx context.Context, cfg config.Cache) (*redis.Client, error) {
	opt := Options(cfg)

	var err error
	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		client := redis.NewClient(opt)
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("cache.Connect: %w", errors.Join(ErrNotReady, err))
}

// Healthcheck returns a closure that pings client, for health endpoints.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.Ping(ctx).Result(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Cache is a byte-oriented view of a Redis client.
type Cache struct {
	client       redis.UniversalClient
	timeout      time.Duration
	ignoreErrors bool
	log          *slog.Logger
}

// New wraps client. Entries written without an explicit ttl expire after
// cfg.Timeout(). With cfg.IgnoreExceptions, Redis failures are logged and
// reported as misses or successful writes.
func New(client redis.UniversalClient, cfg config.Cache, log *slog.Logger) *Cache {
	return &Cache{
		client:       client,
		timeout:      cfg.Timeout(),
		ignoreErrors: cfg.IgnoreExceptions,
		log:          log,
	}
}

// Client returns the underlying Redis client.
func (c *Cache) Client() redis.UniversalClient { return c.client }

// Get returns the value stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrMiss
	case err != nil:
		if c.ignore(ctx, "get", key, err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("cache.Get: %w", err)
	}
	return b, nil
}

// Set stores value under key. A zero ttl uses the configured timeout.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.timeout
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		if c.ignore(ctx, "set", key, err) {
			return nil
		}
		return fmt.Errorf("cache.Set: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		if c.ignore(ctx, "delete", key, err) {
			return nil
		}
		return fmt.Errorf("cache.Delete: %w", err)
	}
	return nil
}

func (c *Cache) ignore(ctx context.Context, op, key string, err error) bool {
	if !c.ignoreErrors {
		return false
	}
	c.log.WarnContext(ctx, "cache error ignored", "op", op, "key", key, "error", err)
	return true
}
