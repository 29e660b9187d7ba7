package cli

import (
	"context"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/textx"
)

// signUp creates a user and returns to the welcome menu.
func (a *App) signUp(ctx context.Context) error {
	return a.addUser(ctx)
}

// addUser asks for a role and a name and creates the user unless the name
// is taken. Used by both sign-up and the librarian menu.
func (a *App) addUser(ctx context.Context) error {
	role, ok, err := getRole(a.reader, a.out)
	if err != nil || !ok {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter the full name:", a.out)
	if err != nil {
		return err
	}

	user, created, err := a.users.ResolveOrCreate(ctx, name, role)
	if err != nil {
		a.report(ctx, "add user", err)
		return nil
	}

	if created {
		a.printf("%s '%s' added successfully.\n", textx.Title(user.Role.String()), textx.Title(user.Name))
	} else {
		a.printf("%s '%s' already exists. Use Sign in.\n", textx.Title(user.Role.String()), textx.Title(user.Name))
	}
	return nil
}

// signIn authenticates by name and role and opens the role's menu.
func (a *App) signIn(ctx context.Context) error {
	role, ok, err := getRole(a.reader, a.out)
	if err != nil || !ok {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter your full name:", a.out)
	if err != nil {
		return err
	}

	user, err := a.users.SignIn(ctx, name, role)
	if err != nil {
		a.report(ctx, "sign in", err)
		return nil
	}

	return a.session(ctx, user)
}

func (a *App) session(ctx context.Context, user *models.User) error {
	a.printf("\nWelcome, %s (%s)!\n", textx.Title(user.Name), textx.Title(user.Role.String()))

	switch user.Role {
	case models.RoleMember:
		return a.runMenu(ctx, a.memberMenu(user))
	case models.RoleLibrarian:
		return a.runMenu(ctx, a.librarianMenu())
	}

	a.println("Unknown user type. Cannot proceed.")
	return nil
}

// report prints the one-line outcome for err. Failures outside the
// business taxonomy are logged as well.
func (a *App) report(ctx context.Context, op string, err error) {
	if !common.IsExpected(err) {
		a.log.Error(ctx, op+" failed", "error", err)
	}
	a.println(common.Describe(err))
}
