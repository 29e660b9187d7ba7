package dbx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
)

// Dialect identifies the SQL flavour of the shared store.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// Builder returns the goqu statement builder for the dialect.
func (d Dialect) Builder() goqu.DialectWrapper {
	return goqu.Dialect(string(d))
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite"
	default:
		return ""
	}
}

// GooseDialect is the dialect name understood by goose.
func (d Dialect) GooseDialect() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite3"
	default:
		return ""
	}
}

// SupportsReturning reports whether INSERT ... RETURNING can be rendered.
func (d Dialect) SupportsReturning() bool {
	return d == Postgres
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is available.
// SQLite serializes writers on a single connection instead.
func (d Dialect) SupportsRowLocks() bool {
	return d == Postgres
}

// TxOptions returns the options used for business transactions.
// Postgres runs at READ COMMITTED and relies on explicit row locks;
// SQLite only accepts the default level.
func (d Dialect) TxOptions() *sql.TxOptions {
	if d == Postgres {
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return nil
}

// ForUpdate adds a row lock to ds when the dialect supports one.
func (d Dialect) ForUpdate(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if !d.SupportsRowLocks() {
		return ds
	}
	return ds.ForUpdate(exp.Wait)
}

// InsertReturningID executes ds and returns the id of the inserted row,
// using RETURNING where possible and LastInsertId otherwise.
func (d Dialect) InsertReturningID(ctx context.Context, db DBTX, ds *goqu.InsertDataset) (int64, error) {
	if d.SupportsReturning() {
		query, args, err := ds.Returning("id").Prepared(true).ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		var id int64
		if err := db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
