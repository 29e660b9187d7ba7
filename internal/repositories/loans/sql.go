package loans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/doug-martin/goqu/v9"
)

const table = "borrowed_books"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, userID, bookID int64, borrowedAt time.Time) (*models.Loan, error) {
	ds := r.dialect.Builder().
		Insert(table).
		Rows(goqu.Record{"user_id": userID, "book_id": bookID, "borrowed_at": borrowedAt})

	id, err := r.dialect.InsertReturningID(ctx, r.db, ds)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &models.Loan{ID: id, UserID: userID, BookID: bookID, BorrowedAt: borrowedAt}, nil
}

func (r *SQLRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query, args, err := r.dialect.Builder().
		From(table).
		Select(goqu.COUNT("*")).
		Where(goqu.C("user_id").Eq(userID)).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// LockOldest locks the earliest loan of bookID held by userID.
func (r *SQLRepository) LockOldest(ctx context.Context, userID, bookID int64) (*models.Loan, error) {
	query, args, err := r.dialect.ForUpdate(
		r.selectLoans().
			Where(goqu.C("user_id").Eq(userID), goqu.C("book_id").Eq(bookID)).
			Order(goqu.C("borrowed_at").Asc(), goqu.C("id").Asc()).
			Limit(1),
	).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	loan := &models.Loan{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return loan, nil
}

// LockByUser locks and returns every loan held by userID, oldest first.
func (r *SQLRepository) LockByUser(ctx context.Context, userID int64) ([]models.Loan, error) {
	query, args, err := r.dialect.ForUpdate(
		r.selectLoans().
			Where(goqu.C("user_id").Eq(userID)).
			Order(goqu.C("borrowed_at").Asc(), goqu.C("id").Asc()),
	).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Loan, 0)
	for rows.Next() {
		var l models.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.BorrowedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.dialect.Builder().
		Delete(table).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListViewsByUser returns the user's loans joined with their books, newest
// first.
func (r *SQLRepository) ListViewsByUser(ctx context.Context, userID int64) ([]models.LoanView, error) {
	query, args, err := r.dialect.Builder().
		From(goqu.T(table).As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Select("l.id", "l.book_id", "b.title", "b.author", "l.borrowed_at").
		Where(goqu.I("l.user_id").Eq(userID)).
		Order(goqu.I("l.borrowed_at").Desc(), goqu.I("l.id").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.LoanView, 0)
	for rows.Next() {
		var v models.LoanView
		if err := rows.Scan(&v.LoanID, &v.BookID, &v.Title, &v.Author, &v.BorrowedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) selectLoans() *goqu.SelectDataset {
	return r.dialect.Builder().From(table).Select("id", "user_id", "book_id", "borrowed_at")
}
