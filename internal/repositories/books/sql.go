package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/doug-martin/goqu/v9"
)

const table = "books"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	return r.getOne(ctx, r.selectBooks().Where(goqu.C("id").Eq(id)))
}

func (r *SQLRepository) LockByID(ctx context.Context, id int64) (*models.Book, error) {
	return r.getOne(ctx, r.dialect.ForUpdate(r.selectBooks().Where(goqu.C("id").Eq(id))))
}

func (r *SQLRepository) GetByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error) {
	return r.getOne(ctx, r.selectBooks().Where(goqu.C("title").Eq(title), goqu.C("author").Eq(author)))
}

func (r *SQLRepository) LockByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error) {
	return r.getOne(ctx, r.dialect.ForUpdate(
		r.selectBooks().Where(goqu.C("title").Eq(title), goqu.C("author").Eq(author)),
	))
}

// Upsert inserts the title with qty = delta, or adds delta to an existing
// row for the same (title, author). The stored quantity never drops below
// zero.
func (r *SQLRepository) Upsert(ctx context.Context, title, author string, delta int) error {
	query, args, err := r.dialect.Builder().
		Insert(table).
		Rows(goqu.Record{"title": title, "author": author, "qty": delta}).
		OnConflict(goqu.DoUpdate("title, author", goqu.Record{
			"qty": goqu.L("CASE WHEN books.qty + excluded.qty < 0 THEN 0 ELSE books.qty + excluded.qty END"),
		})).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Adjust adds delta to the row's quantity, clamping at zero.
func (r *SQLRepository) Adjust(ctx context.Context, id int64, delta int) error {
	query, args, err := r.dialect.Builder().
		Update(table).
		Set(goqu.Record{"qty": goqu.L("CASE WHEN qty + ? < 0 THEN 0 ELSE qty + ? END", delta, delta)}).
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

// DeleteIfUnused removes the row when it has no copies left and no loan
// references it. It reports whether the row was removed.
func (r *SQLRepository) DeleteIfUnused(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.dialect.Builder().
		Delete(table).
		Where(
			goqu.C("id").Eq(id),
			goqu.C("qty").Lte(0),
			goqu.L("NOT EXISTS (SELECT 1 FROM borrowed_books WHERE borrowed_books.book_id = books.id)"),
		).
		Prepared(true).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// List returns every title ordered by author, then title.
func (r *SQLRepository) List(ctx context.Context) ([]models.Book, error) {
	return r.getMany(ctx, r.selectBooks().Order(goqu.C("author").Asc(), goqu.C("title").Asc()))
}

func (r *SQLRepository) ListByAuthor(ctx context.Context, author string) ([]models.Book, error) {
	return r.getMany(ctx, r.selectBooks().
		Where(goqu.C("author").Eq(author)).
		Order(goqu.C("title").Asc()))
}

func (r *SQLRepository) selectBooks() *goqu.SelectDataset {
	return r.dialect.Builder().From(table).Select("id", "title", "author", "qty")
}

func (r *SQLRepository) getOne(ctx context.Context, ds *goqu.SelectDataset) (*models.Book, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	book := &models.Book{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.Title, &book.Author, &book.Qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return book, nil
}

func (r *SQLRepository) getMany(ctx context.Context, ds *goqu.SelectDataset) ([]models.Book, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Qty); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
