// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
//
// Each supported dialect has its own directory named after the goose
// dialect: sqlite3, postgres and mysql.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed sqlite3/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS

// For returns the migrations of one dialect, rooted so goose sees the
// .sql files at the top level.
func For(dialect string) (fs.FS, error) {
	switch dialect {
	case "sqlite3", "postgres", "mysql":
		return fs.Sub(FS, dialect)
	}
	return nil, fmt.Errorf("migrations.For: no migrations for dialect %q", dialect)
}
