package config

import (
	"fmt"
	"time"
)

// Cache holds Redis settings for the default cache. Timeouts are whole
// seconds, zero disables the option.
type Cache struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost" validate:"required" yaml:"host"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379" validate:"gt=0,lte=65535" yaml:"port"`
	DB       int    `env:"REDIS_DB" envDefault:"1" validate:"gte=0" yaml:"db"`
	Password Secret `env:"REDIS_PASSWORD" yaml:"password"`

	TimeoutSeconds              int  `env:"CACHES_TIMEOUT" envDefault:"60" validate:"gte=0" yaml:"timeout"`
	SocketConnectTimeoutSeconds int  `env:"SOCKET_CONNECT_TIMEOUT" envDefault:"60" validate:"gte=0" yaml:"socket_connect_timeout"`
	SocketTimeoutSeconds        int  `env:"SOCKET_TIMEOUT" envDefault:"60" validate:"gte=0" yaml:"socket_timeout"`
	IgnoreExceptions            bool `env:"IGNORE_EXCEPTIONS" envDefault:"false" yaml:"ignore_exceptions"`
	RetryOnTimeout              bool `env:"RETRY_ON_TIMEOUT" envDefault:"false" yaml:"retry_on_timeout"`

	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s" yaml:"retry_interval"`
}

// Location returns the redis:// URL of the cache. The password is never
// part of it.
func (c Cache) Location() string {
	return fmt.Sprintf("redis://%s:%d/%d", c.Host, c.Port, c.DB)
}

// Timeout is the default expiry of cache entries.
func (c Cache) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheOptions are the optional client options. Zero fields were not
// configured and must not be applied.
type CacheOptions struct {
	Password             Secret        `yaml:"password,omitempty"`
	SocketConnectTimeout time.Duration `yaml:"socket_connect_timeout,omitempty"`
	SocketTimeout        time.Duration `yaml:"socket_timeout,omitempty"`
	IgnoreExceptions     bool          `yaml:"ignore_exceptions,omitempty"`
	RetryOnTimeout       bool          `yaml:"retry_on_timeout,omitempty"`
}

// Options returns only the options that are set.
func (c Cache) Options() CacheOptions {
	return CacheOptions{
		Password:             c.Password,
		SocketConnectTimeout: time.Duration(c.SocketConnectTimeoutSeconds) * time.Second,
		SocketTimeout:        time.Duration(c.SocketTimeoutSeconds) * time.Second,
		IgnoreExceptions:     c.IgnoreExceptions,
		RetryOnTimeout:       c.RetryOnTimeout,
	}
}
