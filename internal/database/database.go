// Package database opens the configured SQL database and applies schema
// migrations. SQLite, PostgreSQL and MySQL are supported through
// database/sql.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	_ "modernc.org/sqlite"             // registers "sqlite" driver for database/sql

	"github.com/starter-api/backend/internal/config"
)

var (
	// ErrUnsupportedEngine is returned for engines that can be configured
	// but have no driver in this build.
	ErrUnsupportedEngine = errors.New("unsupported database engine")
	// ErrNotReady is returned when the database stays unreachable after
	// every retry.
	ErrNotReady = errors.New("database did not become ready")
	// ErrHealthcheckFailed wraps ping failures reported by Healthcheck.
	ErrHealthcheckFailed = errors.New("database healthcheck failed")
)

// Dialect is the SQL flavor of a connection. Values match goose dialect
// names.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DB is an open connection pool and the dialect its queries use.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DialectFor maps a configured engine to its dialect.
func DialectFor(engine config.DatabaseType) (Dialect, error) {
	switch engine {
	case config.SQLite:
		return DialectSQLite, nil
	case config.PostgreSQL:
		return DialectPostgres, nil
	case config.MySQL:
		return DialectMySQL, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)
}

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// Rebind rewrites ? placeholders to the dialect's form. Queries must not
// contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func (d Dialect) SupportsReturning() bool {
	return d == DialectSQLite || d == DialectPostgres
}

// DSN builds the driver connection string for desc.
func DSN(desc config.Descriptor) (string, error) {
	switch desc.Engine {
	case config.SQLite:
		if desc.Name == "" {
			return "", errors.New("database.DSN: sqlite path is empty")
		}
		return "file:" + desc.Name + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil

	case config.PostgreSQL:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(desc.User, desc.Password.Value()),
			Host:   net.JoinHostPort(desc.Host, strconv.Itoa(desc.Port)),
			Path:   "/" + desc.Name,
		}
		return u.String(), nil

	case config.MySQL:
		cfg := mysql.NewConfig()
		cfg.User = desc.User
		cfg.Passwd = desc.Password.Value()
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(desc.Host, strconv.Itoa(desc.Port))
		cfg.DBName = desc.Name
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	}
	return "", fmt.Errorf("database.DSN: %w: %s", ErrUnsupportedEngine, desc.Engine)
}

// Open connects to the configured database, retrying the first ping.
func Open(ctx context.Context, cfg config.Database) (*DB, error) {
	desc := cfg.Descriptor()

	dialect, err := DialectFor(desc.Engine)
	if err != nil {
		return nil, fmt.Errorf("database.Open: %w", err)
	}
	dsn, err := DSN(desc)
	if err != nil {
		return nil, fmt.Errorf("database.Open: %w", err)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("database.Open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		if err = db.PingContext(ctx); err == nil {
			return &DB{DB: db, Dialect: dialect}, nil
		}
		if i == attempts-1 {
			break
		}
		// Linear backoff: attempt n waits n * RetryInterval.
		select {
		case <-ctx.Done():
			db.Close()
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	db.Close()
	return nil, fmt.Errorf("database.Open: %w", errors.Join(ErrNotReady, err))
}

// Healthcheck returns a closure that pings db, for health endpoints.
func Healthcheck(db *DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
