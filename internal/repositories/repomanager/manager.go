package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/books"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/loans"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/users"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Books(db dbx.DBTX) books.Repository
	Loans(db dbx.DBTX) loans.Repository
}
