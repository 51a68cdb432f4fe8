package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// DatabaseType selects the database engine.
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	PostgreSQL DatabaseType = "postgresql"
	MySQL      DatabaseType = "mysql"
	Oracle     DatabaseType = "oracle"
	MSSQL      DatabaseType = "mssql"
)

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown
// engines.
func (t *DatabaseType) UnmarshalText(b []byte) error {
	switch v := DatabaseType(b); v {
	case SQLite, PostgreSQL, MySQL, Oracle, MSSQL:
		*t = v
		return nil
	}
	return fmt.Errorf("unknown database type %q (want sqlite, postgresql, mysql, oracle or mssql)", string(b))
}

// Database holds connection settings for the default database.
type Database struct {
	Type     DatabaseType `env:"DATABASE_TYPE" envDefault:"sqlite" yaml:"type"`
	Host     string       `env:"DATABASE_HOST" envDefault:"localhost" yaml:"host"`
	Port     int          `env:"DATABASE_PORT" envDefault:"5432" validate:"gt=0,lte=65535" yaml:"port"`
	Name     string       `env:"DATABASE_NAME" envDefault:"postgres" yaml:"name"`
	User     string       `env:"DATABASE_USER" envDefault:"postgres" yaml:"user"`
	Password Secret       `env:"DATABASE_PASSWORD" envDefault:"postgres" yaml:"password"`

	// SQLitePath overrides the default <BASE_DIR>/db.sqlite3.
	SQLitePath string `env:"SQLITE_PATH" yaml:"sqlite_path,omitempty"`

	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10" validate:"gte=0" yaml:"max_open_conns"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5" validate:"gte=0" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m" yaml:"conn_max_lifetime"`

	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"2s" yaml:"retry_interval"`

	MigrateOnStart bool `env:"DATABASE_MIGRATE_ON_START" envDefault:"false" yaml:"migrate_on_start"`
}

func (d *Database) finalize(baseDir string) {
	if d.Type == SQLite && d.SQLitePath == "" {
		d.SQLitePath = filepath.Join(baseDir, "db.sqlite3")
	}
}

// Descriptor is the resolved connection description for the selected
// engine. SQLite uses only Name, which is a file path.
type Descriptor struct {
	Engine   DatabaseType `yaml:"engine"`
	Name     string       `yaml:"name"`
	User     string       `yaml:"user,omitempty"`
	Password Secret       `yaml:"password,omitempty"`
	Host     string       `yaml:"host,omitempty"`
	Port     int          `yaml:"port,omitempty"`
}

// Descriptor builds the connection descriptor for d.
func (d Database) Descriptor() Descriptor {
	if d.Type == SQLite {
		return Descriptor{Engine: SQLite, Name: d.SQLitePath}
	}
	return Descriptor{
		Engine:   d.Type,
		Name:     d.Name,
		User:     d.User,
		Password: d.Password,
		Host:     d.Host,
		Port:     d.Port,
	}
}
