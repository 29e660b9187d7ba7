package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/repomanager"
)

// Adjustment describes the outcome of a catalog change.
type Adjustment struct {
	// Book is the row after the change. When Purged is set the row no longer
	// exists and Book holds its last state.
	Book     models.Book
	Previous int
	Purged   bool
}

// Changed is the signed number of copies actually added or removed, which
// differs from the requested delta when removal was clamped at zero.
func (a *Adjustment) Changed() int {
	return a.Book.Qty - a.Previous
}

// CatalogService maintains per-title copy counts.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *CatalogService {
	return &CatalogService{db: db, repomanager: m, log: log.With("service", "catalog")}
}

// AdjustCopies adds delta copies of (title, author), creating the title when
// delta is positive and it does not exist yet. Removal clamps at zero; a
// title left with no copies and no loans is deleted from the catalog.
func (s *CatalogService) AdjustCopies(ctx context.Context, title, author string, delta int) (*Adjustment, error) {
	title = models.Normalize(title)
	author = models.Normalize(author)
	if title == "" || author == "" {
		return nil, common.ErrInvalidInput
	}
	if delta == 0 {
		return nil, common.ErrInvalidAmount
	}

	var adj *Adjustment

	err := dbx.WithTx(ctx, s.db, s.repomanager.Dialect(), func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Books(tx)

		previous := 0
		book, err := repo.LockByTitleAuthor(ctx, title, author)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			if delta < 0 {
				return common.ErrBookNotFound
			}
			if err := repo.Upsert(ctx, title, author, delta); err != nil {
				return fmt.Errorf("upsert book: %w", err)
			}
		case err != nil:
			return fmt.Errorf("lock book: %w", err)
		default:
			previous = book.Qty
			if err := repo.Adjust(ctx, book.ID, delta); err != nil {
				return fmt.Errorf("adjust book: %w", err)
			}
		}

		book, err = repo.LockByTitleAuthor(ctx, title, author)
		if err != nil {
			return fmt.Errorf("read book: %w", err)
		}

		purged := false
		if book.Qty <= 0 {
			purged, err = repo.DeleteIfUnused(ctx, book.ID)
			if err != nil {
				return fmt.Errorf("purge book: %w", err)
			}
		}

		adj = &Adjustment{Book: *book, Previous: previous, Purged: purged}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "catalog adjusted",
		"book_id", adj.Book.ID, "delta", delta, "previous", adj.Previous, "qty", adj.Book.Qty, "purged", adj.Purged)
	return adj, nil
}

// AddTitle adds one copy of a title, creating it if needed.
func (s *CatalogService) AddTitle(ctx context.Context, title, author string) (*Adjustment, error) {
	return s.AdjustCopies(ctx, title, author, 1)
}

func (s *CatalogService) AddCopies(ctx context.Context, title, author string, n int) (*Adjustment, error) {
	if n <= 0 {
		return nil, common.ErrInvalidAmount
	}
	return s.AdjustCopies(ctx, title, author, n)
}

func (s *CatalogService) RemoveCopies(ctx context.Context, title, author string, n int) (*Adjustment, error) {
	if n <= 0 {
		return nil, common.ErrInvalidAmount
	}
	return s.AdjustCopies(ctx, title, author, -n)
}

// ListInventory returns the whole catalog ordered by author, then title.
func (s *CatalogService) ListInventory(ctx context.Context) ([]models.Book, error) {
	books, err := s.repomanager.Books(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *CatalogService) ListByAuthor(ctx context.Context, author string) ([]models.Book, error) {
	author = models.Normalize(author)
	if author == "" {
		return nil, common.ErrInvalidInput
	}

	books, err := s.repomanager.Books(s.db).ListByAuthor(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *CatalogService) FindBook(ctx context.Context, title, author string) (*models.Book, error) {
	title = models.Normalize(title)
	author = models.Normalize(author)
	if title == "" || author == "" {
		return nil, common.ErrInvalidInput
	}

	book, err := s.repomanager.Books(s.db).GetByTitleAuthor(ctx, title, author)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("read book: %w", err)
	}
	return book, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("read book: %w", err)
	}
	return book, nil
}
