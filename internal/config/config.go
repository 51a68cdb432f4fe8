// Package config loads and validates application settings from environment
// variables and per-environment .env files.
//
// Settings are assembled once at process start by Load and passed to each
// component by reference. Nothing in the package keeps global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvDir is where Load looks for .env files unless ENV_DIR is set.
const DefaultEnvDir = "_environment"

// Settings holds every configuration section. Each component reads only
// the section it needs.
type Settings struct {
	Environment Environment `env:"ENVIRONMENT" envDefault:"local" yaml:"environment"`

	Base           Base           `yaml:"base"`
	Security       Security       `yaml:"security"`
	Server         Server         `yaml:"server"`
	Database       Database       `yaml:"database"`
	Cache          Cache          `yaml:"cache"`
	Sessions       Sessions       `yaml:"sessions"`
	REST           REST           `yaml:"rest_framework"`
	Middleware     Middleware     `yaml:"middleware"`
	InstalledApps  InstalledApps  `yaml:"installed_apps"`
	Logging        Logging        `yaml:"logging"`
	Static         Static         `yaml:"static"`
	Documentation  Documentation  `yaml:"documentation"`
	TimeZone       TimeZone       `yaml:"time_zone"`
	Authentication Authentication `yaml:"authentication"`
}

// Load reads settings from the process environment, layered over
// <dir>/.env and <dir>/.env.<ENVIRONMENT> where dir is ENV_DIR or
// DefaultEnvDir. Missing files are not an error.
func Load() (*Settings, error) {
	return LoadFrom(getEnv("ENV_DIR", DefaultEnvDir), os.Environ())
}

// LoadFrom is Load with an explicit env file directory and environment in
// os.Environ form. The process environment is never modified.
func LoadFrom(dir string, environ []string) (*Settings, error) {
	vars, err := readEnvFiles(dir, environ)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	s := &Settings{}
	if err := env.ParseWithOptions(s, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if err := s.finalize(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if err := validateSettings(s); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return s, nil
}

// finalize derives the computed fields of every section.
func (s *Settings) finalize() error {
	base, err := filepath.Abs(s.Base.BaseDir)
	if err != nil {
		return fmt.Errorf("BASE_DIR: %w", err)
	}
	s.Base.BaseDir = base

	s.Base.finalize()
	s.Server.finalize()
	s.Database.finalize(base)
	s.REST.finalize(s.Environment)
	s.Static.finalize(base)
	s.Logging.finalize(s.Environment)
	s.Authentication.finalize()
	return nil
}

// ValidateProduction rejects settings that are unsafe to serve in
// production. It is a no-op in other environments.
func (s *Settings) ValidateProduction() error {
	if s.Environment != Production {
		return nil
	}

	var errs []error
	if len(s.Base.AllowedHosts) == 0 {
		errs = append(errs, errors.New("ALLOWED_HOSTS must be set in production (set SERVER_NAME)"))
	}
	if s.Security.Debug {
		errs = append(errs, errors.New("DEBUG must be false in production"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config.ValidateProduction: %w", errors.Join(errs...))
	}
	return nil
}

// readEnvFiles merges <dir>/.env, <dir>/.env.<environment> and environ,
// later sources winning. ENVIRONMENT itself is resolved from .env and
// environ only. Empty values count as unset.
func readEnvFiles(dir string, environ []string) (map[string]string, error) {
	procEnv := environToMap(environ)

	vars := map[string]string{}
	if err := mergeEnvFile(vars, filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	environment := vars["ENVIRONMENT"]
	if v, ok := procEnv["ENVIRONMENT"]; ok {
		environment = v
	}
	if environment == "" {
		environment = string(Local)
	}
	var e Environment
	if err := e.UnmarshalText([]byte(environment)); err != nil {
		return nil, err
	}

	if err := mergeEnvFile(vars, filepath.Join(dir, ".env."+string(e))); err != nil {
		return nil, err
	}

	for k, v := range procEnv {
		vars[k] = v
	}
	return vars, nil
}

func mergeEnvFile(dst map[string]string, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for k, v := range values {
		if v != "" {
			dst[k] = v
		}
	}
	return nil
}

func environToMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		m[k] = v
	}
	return m
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// trimAll trims every entry of ss and drops empty ones.
func trimAll(ss []string) []string {
	return splitCSV(strings.Join(ss, ","))
}
