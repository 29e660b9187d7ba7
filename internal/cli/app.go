package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/logging"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/services"
	"golang.org/x/term"
)

// UserService is the part of services.UserService the terminal uses.
type UserService interface {
	ResolveOrCreate(ctx context.Context, name string, role models.Role) (*models.User, bool, error)
	SignIn(ctx context.Context, name string, role models.Role) (*models.User, error)
	TerminateMembership(ctx context.Context, userID int64) (int, error)
}

// CatalogService is the part of services.CatalogService the terminal uses.
type CatalogService interface {
	AddTitle(ctx context.Context, title, author string) (*services.Adjustment, error)
	AddCopies(ctx context.Context, title, author string, n int) (*services.Adjustment, error)
	RemoveCopies(ctx context.Context, title, author string, n int) (*services.Adjustment, error)
	ListInventory(ctx context.Context) ([]models.Book, error)
	ListByAuthor(ctx context.Context, author string) ([]models.Book, error)
	FindBook(ctx context.Context, title, author string) (*models.Book, error)
}

// LoanService is the part of services.LoanService the terminal uses.
type LoanService interface {
	Checkout(ctx context.Context, userID, bookID int64) (*models.Loan, error)
	Return(ctx context.Context, userID, bookID int64) error
	ListLoans(ctx context.Context, userID int64) ([]models.LoanView, error)
}

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// StdinIsTerminal reports whether os.Stdin is an interactive terminal.
func StdinIsTerminal() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

type App struct {
	users   UserService
	catalog CatalogService
	loans   LoanService
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// charDelay slows down the welcome text; zero prints it at once.
	charDelay time.Duration
}

func NewApp(us UserService, cs CatalogService, ls LoanService, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		users:   us,
		catalog: cs,
		loans:   ls,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// SetCharDelay makes the welcome menu appear one character at a time.
func (a *App) SetCharDelay(d time.Duration) {
	a.charDelay = d
}

// Run shows the welcome menu until the user exits, the input ends or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.println(welcomeArt)

	for {
		if ctx.Err() != nil {
			return nil
		}

		a.printSlow(ctx, welcomeMenu)
		choice, err := getSimpleText(a.reader, "", a.out)
		if err != nil {
			return a.finish(err)
		}

		switch choice {
		case "1":
			err = a.signUp(ctx)
		case "2":
			err = a.signIn(ctx)
		case "3":
			a.println("Goodbye!")
			return nil
		default:
			a.println("Invalid choice. Try again.")
		}
		if err != nil {
			return a.finish(err)
		}
	}
}

// finish turns end of input into a normal exit.
func (a *App) finish(err error) error {
	if errors.Is(err, io.EOF) {
		a.println("Goodbye!")
		return nil
	}
	return err
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) printSlow(ctx context.Context, text string) {
	if a.charDelay <= 0 {
		fmt.Fprint(a.out, text)
		return
	}
	for _, r := range text {
		fmt.Fprint(a.out, string(r))
		select {
		case <-ctx.Done():
			return
		case <-time.After(a.charDelay):
		}
	}
}
