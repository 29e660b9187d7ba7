package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/books"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/loans"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager(dbx.Postgres)
	require.NoError(t, err)
	assert.Equal(t, dbx.Postgres, m.Dialect())

	_, err = NewRepositoryManager(dbx.Dialect("oracle"))
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)
	m := &SQLRepositoryManager{dialect: dbx.SQLite}

	var _ users.Repository = m.Users(db)
	var _ books.Repository = m.Books(db)
	var _ loans.Repository = m.Loans(db)

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Books(db))
	assert.NotNil(t, m.Loans(db))
}

func TestRunMigrations_PicksDialectDir(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var dirs []string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		dirs = append(dirs, dir)
		return nil
	}

	require.NoError(t, (&SQLRepositoryManager{dialect: dbx.Postgres}).RunMigrations(context.Background(), db))
	require.NoError(t, (&SQLRepositoryManager{dialect: dbx.SQLite}).RunMigrations(context.Background(), db))
	assert.Equal(t, []string{"postgres", "sqlite"}, dirs)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err := (&SQLRepositoryManager{dialect: dbx.Postgres}).RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestOpen_SQLiteMigrateAndUse(t *testing.T) {
	ctx := context.Background()

	db, dialect, err := Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "data", "lib.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, dbx.SQLite, dialect)

	m, err := NewRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))
	require.NoError(t, m.RunMigrations(ctx, db), "migrations are idempotent")

	created, err := m.Users(db).InsertIfAbsent(ctx, "ann", models.RoleMember)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestOpen_RejectsUnknownDSN(t *testing.T) {
	_, _, err := Open(context.Background(), "mysql://localhost/db")
	require.Error(t, err)
}
