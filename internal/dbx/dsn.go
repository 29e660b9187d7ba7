package dbx

import (
	"fmt"
	"strings"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// ParseDSN picks the dialect for a configured DSN and returns the string to
// hand to sql.Open.
//
//	postgres://... or postgresql://...   PostgreSQL through pgx
//	sqlite:<path>                        SQLite file at <path>
//	file:<path>[?params]                 SQLite, params passed through
//
// SQLite connections get foreign keys, a busy timeout and WAL journaling
// unless the DSN carries its own parameters.
func ParseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(dsn, "sqlite:")
		if path == "" {
			return "", "", fmt.Errorf("sqlite dsn %q has no path", dsn)
		}
		return SQLite, "file:" + path + "?" + sqlitePragmas, nil
	case strings.HasPrefix(dsn, "file:"):
		if strings.Contains(dsn, "?") {
			return SQLite, dsn, nil
		}
		return SQLite, dsn + "?" + sqlitePragmas, nil
	default:
		return "", "", fmt.Errorf("unsupported database dsn %q", dsn)
	}
}

// SQLiteFilePath returns the file path inside a SQLite driver DSN, or ""
// for in-memory databases.
func SQLiteFilePath(driverDSN string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(driverDSN, "file:"), "?")
	if path == "" || path == ":memory:" || strings.HasPrefix(path, ":memory:") {
		return ""
	}
	return path
}
