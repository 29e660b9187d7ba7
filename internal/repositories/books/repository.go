package books

import (
	"context"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
)

// Repository reads and writes rows of the books table. Title and author are
// expected to be normalized by the caller. Missing rows yield
// common.ErrorNotFound.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	LockByID(ctx context.Context, id int64) (*models.Book, error)
	GetByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error)
	LockByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error)
	Upsert(ctx context.Context, title, author string, delta int) error
	Adjust(ctx context.Context, id int64, delta int) error
	DeleteIfUnused(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]models.Book, error)
	ListByAuthor(ctx context.Context, author string) ([]models.Book, error)
}
