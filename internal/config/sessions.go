package config

import (
	"net/http"
	"time"
)

// Sessions holds session storage and cookie settings.
type Sessions struct {
	// Engine is "cache" for sessions stored in the cache selected by
	// CacheAlias, or "memory" for a per-process store.
	Engine     string `env:"SESSION_ENGINE" envDefault:"cache" validate:"oneof=cache memory" yaml:"engine"`
	CacheAlias string `env:"SESSION_CACHE_ALIAS" envDefault:"default" validate:"oneof=default redis" yaml:"cache_alias"`

	CookieName     string `env:"SESSION_COOKIE_NAME" envDefault:"sessionid" validate:"required" yaml:"cookie_name"`
	CookieSecure   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"true" yaml:"cookie_secure"`
	CookieHTTPOnly bool   `env:"SESSION_COOKIE_HTTPONLY" envDefault:"true" yaml:"cookie_httponly"`
	CookieSameSite string `env:"SESSION_COOKIE_SAMESITE" envDefault:"Lax" validate:"oneof=Lax Strict None" yaml:"cookie_samesite"`

	ExpireAtBrowserClose bool `env:"SESSION_EXPIRE_AT_BROWSER_CLOSE" envDefault:"false" yaml:"expire_at_browser_close"`
	CookieAgeSeconds     int  `env:"SESSION_COOKIE_AGE" envDefault:"86400" validate:"gt=0" yaml:"cookie_age"`
	SaveEveryRequest     bool `env:"SESSION_SAVE_EVERY_REQUEST" envDefault:"false" yaml:"save_every_request"`
}

// CookieAge is the session lifetime.
func (s Sessions) CookieAge() time.Duration {
	return time.Duration(s.CookieAgeSeconds) * time.Second
}

// SameSite maps CookieSameSite to its net/http constant.
func (s Sessions) SameSite() http.SameSite {
	switch s.CookieSameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
