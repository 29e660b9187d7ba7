package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/config"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx/dbxtest"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *sql.DB
	users   *UserService
	catalog *CatalogService
	loans   *LoanService
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	for _, m := range mutate {
		m(cfg)
	}

	db := dbxtest.NewSQLite(t)
	rm, err := repomanager.NewRepositoryManager(dbx.SQLite)
	require.NoError(t, err)

	log := logging.Nop()
	env := &testEnv{
		db:      db,
		users:   NewUserService(db, rm, cfg, log),
		catalog: NewCatalogService(db, rm, log),
		loans:   NewLoanService(db, rm, cfg, log),
	}

	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	env.loans.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return env
}

func (e *testEnv) member(t *testing.T, name string) *models.User {
	t.Helper()
	u, _, err := e.users.ResolveOrCreate(context.Background(), name, models.RoleMember)
	require.NoError(t, err)
	return u
}

func (e *testEnv) stock(t *testing.T, title, author string, qty int) *models.Book {
	t.Helper()
	adj, err := e.catalog.AddCopies(context.Background(), title, author, qty)
	require.NoError(t, err)
	return &adj.Book
}

func (e *testEnv) qty(t *testing.T, bookID int64) int {
	t.Helper()
	b, err := e.catalog.GetBook(context.Background(), bookID)
	require.NoError(t, err)
	return b.Qty
}

func (e *testEnv) loanCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM borrowed_books`).Scan(&n))
	return n
}
