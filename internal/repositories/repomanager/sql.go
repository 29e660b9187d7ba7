// Package repomanager vends repositories bound to a connection or a
// transaction and applies the embedded goose migrations for the active
// dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/filex"
	"github.com/dmitrijs2005/gophlibrary/internal/migrations"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/books"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/loans"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager renders every statement for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

// Books returns a books.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Books(db dbx.DBTX) books.Repository {
	return books.NewSQLRepository(db, m.dialect)
}

// Loans returns a loans.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Loans(db dbx.DBTX) loans.Repository {
	return loans.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dir := migrations.PostgresDir
	if m.dialect == dbx.SQLite {
		dir = migrations.SQLiteDir
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for dialect.
func NewRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	switch dialect {
	case dbx.Postgres, dbx.SQLite:
		return &SQLRepositoryManager{dialect: dialect}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// Open connects to the database named by dsn and checks it is reachable.
// SQLite pools are capped to one connection so that transactions never
// interleave, and the directory of a SQLite file is created on demand.
func Open(ctx context.Context, dsn string) (*sql.DB, dbx.Dialect, error) {
	dialect, driverDSN, err := dbx.ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	if dialect == dbx.SQLite {
		if path := dbx.SQLiteFilePath(driverDSN); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, "", err
			}
		}
	}

	db, err := sql.Open(dialect.DriverName(), driverDSN)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == dbx.SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}

	return db, dialect, nil
}
