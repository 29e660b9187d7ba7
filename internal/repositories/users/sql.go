package users

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

const table = "users"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// InsertIfAbsent creates the user unless the name is already taken and
// reports whether a row was inserted.
func (r *SQLRepository) InsertIfAbsent(ctx context.Context, name string, role models.Role) (bool, error) {
	query, args, err := r.dialect.Builder().
		Insert(table).
		Rows(goqu.Record{"name": name, "user_type": string(role)}).
		OnConflict(goqu.DoNothing()).
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

func (r *SQLRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.getOne(ctx, r.selectUsers().Where(goqu.C("name").Eq(name)))
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, r.selectUsers().Where(goqu.C("id").Eq(id)))
}

// LockByID reads the user and holds a row lock until the surrounding
// transaction ends.
func (r *SQLRepository) LockByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, r.dialect.ForUpdate(r.selectUsers().Where(goqu.C("id").Eq(id))))
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

func (r *SQLRepository) selectUsers() *goqu.SelectDataset {
	return r.dialect.Builder().From(table).Select("id", "name", "user_type")
}

func (r *SQLRepository) getOne(ctx context.Context, ds *goqu.SelectDataset) (*models.User, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	user := &models.User{}
	var role string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Name, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Role = models.Role(role)

	return user, nil
}
