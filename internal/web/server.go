// Package web serves the library dashboard over HTTP: a sign-in form for
// visitors, the inventory table, and a member or librarian panel for
// signed-in users.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/services"
)

// UserService is the part of services.UserService the dashboard uses.
type UserService interface {
	ResolveOrCreate(ctx context.Context, name string, role models.Role) (*models.User, bool, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	TerminateMembership(ctx context.Context, userID int64) (int, error)
}

// CatalogService is the part of services.CatalogService the dashboard uses.
type CatalogService interface {
	AddTitle(ctx context.Context, title, author string) (*services.Adjustment, error)
	AddCopies(ctx context.Context, title, author string, n int) (*services.Adjustment, error)
	RemoveCopies(ctx context.Context, title, author string, n int) (*services.Adjustment, error)
	ListInventory(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
}

// LoanService is the part of services.LoanService the dashboard uses.
type LoanService interface {
	Checkout(ctx context.Context, userID, bookID int64) (*models.Loan, error)
	Return(ctx context.Context, userID, bookID int64) error
	ListLoans(ctx context.Context, userID int64) ([]models.LoanView, error)
}

const shutdownTimeout = 10 * time.Second

type Server struct {
	address   string
	logger    logging.Logger
	session   *scs.SessionManager
	users     UserService
	catalog   CatalogService
	loans     LoanService
	templates *template.Template
}

func NewServer(addr string, l logging.Logger, sm *scs.SessionManager, us UserService, cs CatalogService, ls LoanService) (*Server, error) {
	ts, err := newTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		address:   addr,
		logger:    l.With("module", "web_server"),
		session:   sm,
		users:     us,
		catalog:   cs,
		loans:     ls,
		templates: ts,
	}, nil
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping web server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting web server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
