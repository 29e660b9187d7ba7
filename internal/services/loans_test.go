package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/config"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_UpToLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.member(t, "Alice")
	dune := env.stock(t, "Dune", "Frank Herbert", 3)
	emma := env.stock(t, "Emma", "Jane Austen", 3)

	_, err := env.loans.Checkout(ctx, alice.ID, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, env.qty(t, dune.ID))

	for _, id := range []int64{dune.ID, emma.ID, emma.ID, emma.ID} {
		_, err := env.loans.Checkout(ctx, alice.ID, id)
		require.NoError(t, err)
	}
	require.Equal(t, 5, env.loanCount(t))

	_, err = env.loans.Checkout(ctx, alice.ID, dune.ID)
	require.ErrorIs(t, err, common.ErrLoanLimitExceeded)
	assert.Equal(t, 1, env.qty(t, dune.ID), "failed checkout leaves quantity")
	assert.Equal(t, 5, env.loanCount(t), "failed checkout adds no loan")
}

func TestCheckout_ConfigurableLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.LoanLimit = 1 })
	ctx := context.Background()

	ivy := env.member(t, "ivy")
	dune := env.stock(t, "Dune", "Frank Herbert", 3)

	_, err := env.loans.Checkout(ctx, ivy.ID, dune.ID)
	require.NoError(t, err)
	_, err = env.loans.Checkout(ctx, ivy.ID, dune.ID)
	require.ErrorIs(t, err, common.ErrLoanLimitExceeded)
}

func TestCheckout_NoCopiesAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	jack := env.member(t, "jack")
	kim := env.member(t, "kim")
	book := env.stock(t, "Emma", "Jane Austen", 1)

	_, err := env.loans.Checkout(ctx, jack.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, env.qty(t, book.ID), "checkout to zero keeps the row")

	_, err = env.loans.Checkout(ctx, kim.ID, book.ID)
	require.ErrorIs(t, err, common.ErrNoCopiesAvailable)
	assert.Equal(t, 1, env.loanCount(t))
}

func TestCheckout_UnknownBookOrUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	carol := env.member(t, "Carol")
	book := env.stock(t, "Dune", "Frank Herbert", 1)

	_, err := env.loans.Checkout(ctx, carol.ID, 999)
	require.ErrorIs(t, err, common.ErrBookNotFound)

	_, err = env.loans.Checkout(ctx, 999, book.ID)
	require.ErrorIs(t, err, common.ErrUserNotFound)

	assert.Equal(t, 0, env.loanCount(t))
	assert.Equal(t, 1, env.qty(t, book.ID))
}

func TestCheckout_LibrarianCannotBorrow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lib, _, err := env.users.ResolveOrCreate(ctx, "bob", models.RoleLibrarian)
	require.NoError(t, err)
	book := env.stock(t, "Dune", "Frank Herbert", 1)

	_, err = env.loans.Checkout(ctx, lib.ID, book.ID)
	require.ErrorIs(t, err, common.ErrNotPermitted)
}

func TestReturn_RoundTripRestoresQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	eve := env.member(t, "Eve")
	dune := env.stock(t, "Dune", "Frank Herbert", 3)

	_, err := env.loans.Checkout(ctx, eve.ID, dune.ID)
	require.NoError(t, err)
	require.NoError(t, env.loans.Return(ctx, eve.ID, dune.ID))

	assert.Equal(t, 3, env.qty(t, dune.ID))
	assert.Equal(t, 0, env.loanCount(t))

	err = env.loans.Return(ctx, eve.ID, dune.ID)
	require.ErrorIs(t, err, common.ErrLoanNotFound)
	assert.Equal(t, 3, env.qty(t, dune.ID))
}

func TestReturn_OldestLoanFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	liz := env.member(t, "liz")
	dune := env.stock(t, "Dune", "Frank Herbert", 2)

	first, err := env.loans.Checkout(ctx, liz.ID, dune.ID)
	require.NoError(t, err)
	second, err := env.loans.Checkout(ctx, liz.ID, dune.ID)
	require.NoError(t, err)

	require.NoError(t, env.loans.Return(ctx, liz.ID, dune.ID))

	views, err := env.loans.ListLoans(ctx, liz.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, second.ID, views[0].LoanID)
	assert.NotEqual(t, first.ID, views[0].LoanID)
}

func TestListLoans_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mona := env.member(t, "mona")
	dune := env.stock(t, "Dune", "Frank Herbert", 1)
	emma := env.stock(t, "Emma", "Jane Austen", 1)

	_, err := env.loans.Checkout(ctx, mona.ID, dune.ID)
	require.NoError(t, err)
	_, err = env.loans.Checkout(ctx, mona.ID, emma.ID)
	require.NoError(t, err)

	views, err := env.loans.ListLoans(ctx, mona.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "emma", views[0].Title)
	assert.Equal(t, "dune", views[1].Title)
	assert.True(t, views[0].BorrowedAt.After(views[1].BorrowedAt))
}

func TestCheckout_PostgresRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm, err := repomanager.NewRepositoryManager(dbx.Postgres)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	svc := NewLoanService(db, rm, cfg, logging.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "users" WHERE ("id" = $1) FOR UPDATE`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_type"}).AddRow(int64(1), "alice", "member"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "books" WHERE ("id" = $1) FOR UPDATE`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author", "qty"}).AddRow(int64(2), "dune", "frank herbert", 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "borrowed_books"`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "books" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "borrowed_books"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = svc.Checkout(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, common.IsExpected(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_PostgresLimitCheckRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm, err := repomanager.NewRepositoryManager(dbx.Postgres)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	svc := NewLoanService(db, rm, cfg, logging.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_type"}).AddRow(int64(1), "alice", "member"))
	mock.ExpectQuery(`FROM "books"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author", "qty"}).AddRow(int64(2), "dune", "frank herbert", 4))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	_, err = svc.Checkout(context.Background(), 1, 2)
	require.ErrorIs(t, err, common.ErrLoanLimitExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}
