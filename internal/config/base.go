package config

import (
	"net/netip"
	"time"
)

// Base holds project paths and host settings.
type Base struct {
	// BaseDir is the project root. Relative values are resolved against the
	// working directory.
	BaseDir string `env:"BASE_DIR" envDefault:"." yaml:"base_dir"`

	// ServerName is a comma-separated list of host names and IPs this
	// server answers for. It is the single source of AllowedHosts and
	// InternalIPs.
	ServerName string `env:"SERVER_NAME" yaml:"server_name"`

	AllowedHosts []string `yaml:"allowed_hosts"`
	InternalIPs  []string `yaml:"internal_ips"`
}

func (b *Base) finalize() {
	b.AllowedHosts = splitCSV(b.ServerName)
	b.InternalIPs = nil
	for _, host := range b.AllowedHosts {
		if _, err := netip.ParseAddr(host); err == nil {
			b.InternalIPs = append(b.InternalIPs, host)
		}
	}
}

// Security holds settings that must differ per deployment.
type Security struct {
	Debug     bool   `env:"DEBUG" envDefault:"false" yaml:"debug"`
	SecretKey Secret `env:"SECRET_KEY" validate:"required" yaml:"secret_key"`
}

// Server holds HTTP listener settings.
type Server struct {
	Port            string        `env:"PORT" envDefault:"8080" validate:"required,numeric" yaml:"port"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s" validate:"gt=0" yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s" validate:"gt=0" yaml:"write_timeout"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s" validate:"gt=0" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s" validate:"gt=0" yaml:"shutdown_timeout"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:"," validate:"dive,url" yaml:"cors_origins"`

	// MaxBodyBytes caps request bodies. Larger requests get 413.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0" yaml:"max_body_bytes"`
}

func (s *Server) finalize() {
	s.CORSOrigins = trimAll(s.CORSOrigins)
}

// Addr returns the listen address.
func (s Server) Addr() string { return ":" + s.Port }
