package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/config"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/repomanager"
)

// LoanService checks books out to members and takes them back.
//
// On PostgreSQL the borrower's user row and the book row are locked before
// any check, so two checkouts of the last copy, or two checkouts pushing one
// member over the limit, cannot both succeed.
type LoanService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	loanLimit   int
	now         func() time.Time
}

func NewLoanService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *LoanService {
	return &LoanService{
		db:          db,
		repomanager: m,
		log:         log.With("service", "loans"),
		loanLimit:   cfg.LoanLimit,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Checkout lends one copy of bookID to userID.
func (s *LoanService) Checkout(ctx context.Context, userID, bookID int64) (*models.Loan, error) {
	var loan *models.Loan

	err := dbx.WithTx(ctx, s.db, s.repomanager.Dialect(), func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		booksRepo := s.repomanager.Books(tx)
		loansRepo := s.repomanager.Loans(tx)

		user, err := usersRepo.LockByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}
		if !user.Role.CanBorrow() {
			return common.ErrNotPermitted
		}

		book, err := booksRepo.LockByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrBookNotFound
			}
			return fmt.Errorf("lock book: %w", err)
		}
		if book.Qty <= 0 {
			return common.ErrNoCopiesAvailable
		}

		active, err := loansRepo.CountByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("count loans: %w", err)
		}
		if active >= s.loanLimit {
			return common.ErrLoanLimitExceeded
		}

		if err := booksRepo.Adjust(ctx, bookID, -1); err != nil {
			return fmt.Errorf("take copy: %w", err)
		}

		loan, err = loansRepo.Create(ctx, userID, bookID, s.now())
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "book checked out", "user_id", userID, "book_id", bookID, "loan_id", loan.ID)
	return loan, nil
}

// Return gives back the oldest copy of bookID held by userID.
func (s *LoanService) Return(ctx context.Context, userID, bookID int64) error {
	var loanID int64

	err := dbx.WithTx(ctx, s.db, s.repomanager.Dialect(), func(ctx context.Context, tx dbx.DBTX) error {
		loansRepo := s.repomanager.Loans(tx)

		loan, err := loansRepo.LockOldest(ctx, userID, bookID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrLoanNotFound
			}
			return fmt.Errorf("lock loan: %w", err)
		}

		if err := loansRepo.Delete(ctx, loan.ID); err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		if err := s.repomanager.Books(tx).Adjust(ctx, bookID, 1); err != nil {
			return fmt.Errorf("restock book: %w", err)
		}

		loanID = loan.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "book returned", "user_id", userID, "book_id", bookID, "loan_id", loanID)
	return nil
}

// ListLoans returns the user's active loans, newest first.
func (s *LoanService) ListLoans(ctx context.Context, userID int64) ([]models.LoanView, error) {
	views, err := s.repomanager.Loans(s.db).ListViewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return views, nil
}
