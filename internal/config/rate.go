package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRate is returned for throttle rates that are not "<n>/<period>".
var ErrInvalidRate = errors.New("invalid throttle rate")

// Rate is a number of requests allowed per window.
//
// Rates are parsed here so a bad REST_THROTTLE_RATES entry fails at load
// time; internal/throttle consumes the parsed values.
type Rate struct {
	Requests int
	Window   time.Duration
}

// ParseRate parses rates like "1000/hour" or "5/m". Only the first letter
// of the period is significant: s, m, h or d.
func ParseRate(s string) (Rate, error) {
	num, period, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || period == "" {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}

	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}

	var window time.Duration
	switch period[0] {
	case 's':
		window = time.Second
	case 'm':
		window = time.Minute
	case 'h':
		window = time.Hour
	case 'd':
		window = 24 * time.Hour
	default:
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}

	return Rate{Requests: n, Window: window}, nil
}

func (r Rate) String() string {
	return fmt.Sprintf("%d/%s", r.Requests, r.Window)
}

// Rates parses ThrottleRates keyed by class or scope name.
func (r REST) Rates() (map[string]Rate, error) {
	out := make(map[string]Rate, len(r.ThrottleRates))
	for name, s := range r.ThrottleRates {
		rate, err := ParseRate(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = rate
	}
	return out, nil
}
