package cli

import (
	"context"

	"github.com/dmitrijs2005/gophlibrary/internal/textx"
)

func (a *App) librarianMenu() []menuItem {
	return []menuItem{
		{"Add Book", a.noLeave(a.addBook)},
		{"Remove Book", a.noLeave(a.removeCopies)},
		{"View Library Inventory", a.noLeave(a.showInventory)},
		{"Add Copies of Existing Book", a.noLeave(a.addCopies)},
		{"Get Books by Author", a.noLeave(a.booksByAuthor)},
		{"Add User", a.noLeave(a.addUser)},
		{"Log Out", logOut},
	}
}

func (a *App) addBook(ctx context.Context) error {
	title, author, err := a.askBook("Enter book title:")
	if err != nil {
		return err
	}

	adj, err := a.catalog.AddTitle(ctx, title, author)
	if err != nil {
		a.report(ctx, "add book", err)
		return nil
	}

	a.printf("Added 1 copy of '%s' by %s.\n", textx.Title(adj.Book.Title), textx.Title(adj.Book.Author))
	return nil
}

func (a *App) addCopies(ctx context.Context) error {
	title, author, err := a.askBook("Enter book title:")
	if err != nil {
		return err
	}
	n, err := getPositiveInt(a.reader, "How many copies?", a.out)
	if err != nil {
		return err
	}

	adj, err := a.catalog.AddCopies(ctx, title, author, n)
	if err != nil {
		a.report(ctx, "add copies", err)
		return nil
	}

	a.printf("Added %d copies of '%s'. Now %d on the shelf.\n", adj.Changed(), textx.Title(adj.Book.Title), adj.Book.Qty)
	return nil
}

// removeCopies does not cap n at the current quantity; removal clamps at
// zero and a title left without copies leaves the catalog.
func (a *App) removeCopies(ctx context.Context) error {
	title, author, err := a.askBook("Enter book title to remove:")
	if err != nil {
		return err
	}
	n, err := getPositiveInt(a.reader, "How many copies?", a.out)
	if err != nil {
		return err
	}

	adj, err := a.catalog.RemoveCopies(ctx, title, author, n)
	if err != nil {
		a.report(ctx, "remove copies", err)
		return nil
	}

	if adj.Purged {
		a.printf("Removed %d copies of '%s'. The title is no longer in the catalog.\n", -adj.Changed(), textx.Title(adj.Book.Title))
		return nil
	}
	a.printf("Removed %d copies of '%s'. Now %d on the shelf.\n", -adj.Changed(), textx.Title(adj.Book.Title), adj.Book.Qty)
	return nil
}

func (a *App) booksByAuthor(ctx context.Context) error {
	author, err := getSimpleText(a.reader, "Author name:", a.out)
	if err != nil {
		return err
	}

	books, err := a.catalog.ListByAuthor(ctx, author)
	if err != nil {
		a.report(ctx, "books by author", err)
		return nil
	}

	if len(books) == 0 {
		a.printf("No books by '%s' found.\n", textx.Title(author))
		return nil
	}
	a.printBooks(books)
	return nil
}
