// Package throttle limits request rates per client and class, storing
// counters in the configured cache.
package throttle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/session"
)

// Throttler applies the configured throttle classes to every request.
type Throttler struct {
	store   Store
	classes []string
	rates   map[string]config.Rate
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Throttler.
type Option func(*Throttler)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Throttler) { t.now = now }
}

// New builds a Throttler for the classes and rates in cfg. Rates are keyed
// by class name; route scopes look up their own name first and fall back
// to the "scoped" rate.
func New(store Store, cfg config.REST, log *slog.Logger, opts ...Option) (*Throttler, error) {
	rates, err := cfg.Rates()
	if err != nil {
		return nil, fmt.Errorf("throttle.New: %w", err)
	}
	for _, class := range cfg.ThrottleClasses {
		if _, ok := rates[class]; !ok {
			return nil, fmt.Errorf("throttle.New: %w: no rate for class %q", config.ErrInvalidRate, class)
		}
	}

	t := &Throttler{store: store, classes: cfg.ThrottleClasses, rates: rates, now: time.Now, log: log}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// check is one throttle decision.
type check struct {
	rate      config.Rate
	hits      int64
	resetAt   time.Time
	throttled bool
}

func (c check) remaining() int64 { return max(int64(c.rate.Requests)-c.hits, 0) }

// Middleware applies the anon and user classes to every request,
// rejecting requests over any applicable rate with 429. Store failures are
// logged and the request is let through.
func (t *Throttler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.allow(w, r, "") {
			next.ServeHTTP(w, r)
		}
	})
}

// Scope applies the scoped class to a route group. Requests are counted
// under the rate named scope, falling back to the "scoped" rate. Scope is
// a no-op when the scoped class is not configured.
func (t *Throttler) Scope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t.allow(w, r, scope) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// allow counts r against the classes that apply and writes the rate limit
// headers. It writes the 429 response itself and returns false when r is
// throttled. An empty scope selects the anon and user classes, a non-empty
// one only the scoped class.
func (t *Throttler) allow(w http.ResponseWriter, r *http.Request, scope string) bool {
	var tightest *check
	for _, class := range t.classes {
		if (class == config.ThrottleScoped) != (scope != "") {
			continue
		}
		key, rate, ok := t.keyFor(r, class, scope)
		if !ok {
			continue
		}
		c, err := t.hit(r.Context(), key, rate)
		if err != nil {
			t.log.ErrorContext(r.Context(), "throttle store failed", "class", class, "error", err)
			continue
		}
		if tightest == nil || c.throttled || c.remaining() < tightest.remaining() {
			tightest = &c
		}
		if c.throttled {
			break
		}
	}
	if tightest == nil {
		return true
	}

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(tightest.rate.Requests))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(tightest.remaining(), 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(tightest.resetAt.Unix(), 10))
	if !tightest.throttled {
		return true
	}

	wait := int(max(tightest.resetAt.Sub(t.now()).Round(time.Second)/time.Second, 1))
	h.Set("Retry-After", strconv.Itoa(wait))
	h.Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"detail": fmt.Sprintf("Request was throttled. Expected available in %d seconds.", wait),
	})
	return false
}

// keyFor returns the counter key and rate of class for r, or false when
// the class does not apply.
func (t *Throttler) keyFor(r *http.Request, class, scope string) (string, config.Rate, bool) {
	userID := session.UserID(r.Context())
	switch class {
	case config.ThrottleAnon:
		if userID != "" {
			return "", config.Rate{}, false
		}
		return "throttle:anon:" + ClientIP(r), t.rates[class], true

	case config.ThrottleUser:
		return "throttle:user:" + ident(r, userID), t.rates[class], true

	case config.ThrottleScoped:
		rate, ok := t.rates[scope]
		if !ok {
			rate = t.rates[config.ThrottleScoped]
		}
		return "throttle:scope:" + scope + ":" + ident(r, userID), rate, true
	}
	return "", config.Rate{}, false
}

// hit counts one request in the current fixed window of rate.
func (t *Throttler) hit(ctx context.Context, key string, rate config.Rate) (check, error) {
	now := t.now()
	start := now.Truncate(rate.Window)
	resetAt := start.Add(rate.Window)

	hits, err := t.store.Increment(ctx, fmt.Sprintf("%s:%d", key, start.Unix()), resetAt.Sub(now))
	if err != nil {
		return check{}, err
	}
	return check{rate: rate, hits: hits, resetAt: resetAt, throttled: hits > int64(rate.Requests)}, nil
}

func ident(r *http.Request, userID string) string {
	if userID != "" {
		return userID
	}
	return ClientIP(r)
}

// ClientIP returns the host part of r.RemoteAddr, which chi's RealIP
// middleware has already rewritten from proxy headers when present.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
