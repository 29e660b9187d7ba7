// Package dbx holds the small database abstractions shared by repositories
// and services: the DBTX handle implemented by both *sql.DB and *sql.Tx, the
// SQL dialect the store speaks, and a helper that runs a unit of work inside
// one transaction.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction using the isolation level preferred by the
// dialect, runs fn with the transactional handle, and commits when fn
// returns nil. Any error or panic rolls the transaction back; panics are
// rethrown after the rollback.
//
//	err := dbx.WithTx(ctx, db, dialect, func(ctx context.Context, tx dbx.DBTX) error {
//	    books := repos.Books(tx)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, d Dialect, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, d.TxOptions())
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
