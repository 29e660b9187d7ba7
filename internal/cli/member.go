package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/textx"
)

func (a *App) memberMenu(user *models.User) []menuItem {
	return []menuItem{
		{"View Library Inventory", a.noLeave(a.showInventory)},
		{"Checkout Book", a.noLeave(func(ctx context.Context) error { return a.checkout(ctx, user) })},
		{"Return Book", a.noLeave(func(ctx context.Context) error { return a.returnBook(ctx, user) })},
		{"View My Borrowed Books", a.noLeave(func(ctx context.Context) error { return a.showLoans(ctx, user) })},
		{"End Membership", func(ctx context.Context) (bool, error) { return a.endMembership(ctx, user) }},
		{"Log Out", logOut},
	}
}

func (a *App) noLeave(fn func(ctx context.Context) error) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return false, fn(ctx)
	}
}

// askBook reads a title and an author.
func (a *App) askBook(titlePrompt string) (title, author string, err error) {
	title, err = getSimpleText(a.reader, titlePrompt, a.out)
	if err != nil {
		return "", "", err
	}
	author, err = getSimpleText(a.reader, "Enter author name:", a.out)
	if err != nil {
		return "", "", err
	}
	return title, author, nil
}

func (a *App) checkout(ctx context.Context, user *models.User) error {
	title, author, err := a.askBook("Enter book title:")
	if err != nil {
		return err
	}

	book, err := a.catalog.FindBook(ctx, title, author)
	if err != nil {
		a.report(ctx, "checkout", err)
		return nil
	}

	if _, err := a.loans.Checkout(ctx, user.ID, book.ID); err != nil {
		a.report(ctx, "checkout", err)
		return nil
	}

	a.printf("Checked out '%s' by %s.\n", textx.Title(book.Title), textx.Title(book.Author))
	return nil
}

func (a *App) returnBook(ctx context.Context, user *models.User) error {
	title, author, err := a.askBook("Enter book title:")
	if err != nil {
		return err
	}

	book, err := a.catalog.FindBook(ctx, title, author)
	if err != nil {
		a.report(ctx, "return", err)
		return nil
	}

	if err := a.loans.Return(ctx, user.ID, book.ID); err != nil {
		a.report(ctx, "return", err)
		return nil
	}

	a.printf("Returned '%s', thank you!\n", textx.Title(book.Title))
	return nil
}

func (a *App) showLoans(ctx context.Context, user *models.User) error {
	views, err := a.loans.ListLoans(ctx, user.ID)
	if err != nil {
		a.report(ctx, "list loans", err)
		return nil
	}

	if len(views) == 0 {
		a.println("You haven't borrowed any books yet.")
		return nil
	}

	a.println("You have borrowed the following books:")
	for _, v := range views {
		a.printf("  %s by %s (borrowed %s)\n",
			textx.Title(v.Title), textx.Title(v.Author), v.BorrowedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) endMembership(ctx context.Context, user *models.User) (bool, error) {
	answer, err := getSimpleText(a.reader, "End your membership? Type 'yes' to confirm:", a.out)
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(answer, "yes") {
		a.println("Membership kept.")
		return false, nil
	}

	returned, err := a.users.TerminateMembership(ctx, user.ID)
	if err != nil {
		a.report(ctx, "end membership", err)
		return false, nil
	}

	if returned > 0 {
		a.printf("Membership ended for '%s'. %d borrowed book(s) were returned.\n", textx.Title(user.Name), returned)
	} else {
		a.printf("Membership ended for '%s'.\n", textx.Title(user.Name))
	}
	return true, nil
}

func (a *App) showInventory(ctx context.Context) error {
	books, err := a.catalog.ListInventory(ctx)
	if err != nil {
		a.report(ctx, "inventory", err)
		return nil
	}

	if len(books) == 0 {
		a.println("No books in the library yet.")
		return nil
	}

	a.println("Library Inventory:")
	a.printBooks(books)
	return nil
}

func (a *App) printBooks(books []models.Book) {
	for _, b := range books {
		a.printf("  %s by %s (qty: %d)\n", textx.Title(b.Title), textx.Title(b.Author), b.Qty)
	}
}
