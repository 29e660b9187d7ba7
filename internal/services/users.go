// Package services holds the business rules of the library: user
// resolution, catalog maintenance, checkout and return. Every operation
// that touches more than one row runs inside a single transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/config"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/repositories/repomanager"
)

// UserService resolves, signs in and removes library users.
type UserService struct {
	db                        *sql.DB
	repomanager               repomanager.RepositoryManager
	log                       logging.Logger
	blockTerminationWithLoans bool
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                        db,
		repomanager:               m,
		log:                       log.With("service", "users"),
		blockTerminationWithLoans: cfg.BlockTerminationWithLoans,
	}
}

// ResolveOrCreate returns the user called name, creating it with role when
// the name is new. created reports whether a row was inserted. A known name
// with a different role fails with common.ErrRoleMismatch and leaves the
// stored record as it was.
func (s *UserService) ResolveOrCreate(ctx context.Context, name string, role models.Role) (user *models.User, created bool, err error) {
	name = models.Normalize(name)
	if name == "" || !role.Valid() {
		return nil, false, common.ErrInvalidInput
	}

	err = dbx.WithTx(ctx, s.db, s.repomanager.Dialect(), func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		var err error
		created, err = repo.InsertIfAbsent(ctx, name, role)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		user, err = repo.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("read user: %w", err)
		}
		if user.Role != role {
			return common.ErrRoleMismatch
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.Info(ctx, "user created", "user_id", user.ID, "role", user.Role.String())
	}
	return user, created, nil
}

// SignIn finds an existing user and checks the claimed role.
func (s *UserService) SignIn(ctx context.Context, name string, role models.Role) (*models.User, error) {
	name = models.Normalize(name)
	if name == "" || !role.Valid() {
		return nil, common.ErrInvalidInput
	}

	user, err := s.repomanager.Users(s.db).GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("read user: %w", err)
	}
	if user.Role != role {
		return nil, common.ErrRoleMismatch
	}
	return user, nil
}

// GetUser re-reads a user by id, e.g. for an established web session.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("read user: %w", err)
	}
	return user, nil
}

// TerminateMembership deletes the user. Outstanding loans are returned to
// the shelf first, one copy per loan, in the same transaction; it returns
// how many were returned. With BlockTerminationWithLoans set, any
// outstanding loan fails the call with common.ErrLoansOutstanding instead.
func (s *UserService) TerminateMembership(ctx context.Context, userID int64) (int, error) {
	var returned int

	err := dbx.WithTx(ctx, s.db, s.repomanager.Dialect(), func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		loansRepo := s.repomanager.Loans(tx)
		booksRepo := s.repomanager.Books(tx)

		if _, err := usersRepo.LockByID(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		loans, err := loansRepo.LockByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock loans: %w", err)
		}
		if len(loans) > 0 && s.blockTerminationWithLoans {
			return common.ErrLoansOutstanding
		}

		for _, loan := range loans {
			if err := loansRepo.Delete(ctx, loan.ID); err != nil {
				return fmt.Errorf("delete loan %d: %w", loan.ID, err)
			}
			if err := booksRepo.Adjust(ctx, loan.BookID, 1); err != nil {
				return fmt.Errorf("restock book %d: %w", loan.BookID, err)
			}
		}
		returned = len(loans)

		if err := usersRepo.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "membership terminated", "user_id", userID, "returned", returned)
	return returned, nil
}
