package loans

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
)

// Repository reads and writes rows of the borrowed_books table.
type Repository interface {
	Create(ctx context.Context, userID, bookID int64, borrowedAt time.Time) (*models.Loan, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	LockOldest(ctx context.Context, userID, bookID int64) (*models.Loan, error)
	LockByUser(ctx context.Context, userID int64) ([]models.Loan, error)
	Delete(ctx context.Context, id int64) error
	ListViewsByUser(ctx context.Context, userID int64) ([]models.LoanView, error)
}
