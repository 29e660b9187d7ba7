package users

import (
	"context"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
)

// Repository reads and writes rows of the users table. Lookups that find
// nothing return common.ErrorNotFound.
type Repository interface {
	InsertIfAbsent(ctx context.Context, name string, role models.Role) (bool, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	LockByID(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
