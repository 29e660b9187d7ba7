// Package dbxtest opens throwaway migrated databases for tests.
package dbxtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// NewSQLite returns a migrated SQLite database in t.TempDir(), closed when
// the test ends. The pool is capped to one connection like in production.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	_, dsn, err := dbx.ParseDSN("sqlite:" + filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}

	db, err := sql.Open(dbx.SQLite.DriverName(), dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dbx.SQLite.GooseDialect()); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.UpContext(context.Background(), db, migrations.SQLiteDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// Exec runs a fixture statement and fails the test on error.
func Exec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
