package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const welcomeArt = `      __...--~~~~~-._   _.-~~~~~--...__
    //               ` + "`V'" + `               \\
   //                 |                 \\
  //__...--~~~~~~-._  |  _.-~~~~~~--...__\\
 //__.....----~~~~._\ | /_.~~~~----.....__\\
====================\\|//====================
                    ` + "`---`"

const welcomeMenu = "Hello, welcome to the Public Library!\n" +
	"Select the option that describes you best:\n" +
	"1. Sign up (Create a new user)\n" +
	"2. Sign in (Log in as an existing user)\n" +
	"3. Exit\n"

// menuItem is one numbered entry. action returns leave=true when the menu
// should close afterwards.
type menuItem struct {
	label  string
	action func(ctx context.Context) (leave bool, err error)
}

// runMenu shows items until one of them asks to leave. Only input errors
// (typically io.EOF) are returned.
func (a *App) runMenu(ctx context.Context, items []menuItem) error {
	var b strings.Builder
	b.WriteString("\nChoose an option:")
	for i, item := range items {
		fmt.Fprintf(&b, "\n%d. %s", i+1, item.label)
	}
	prompt := b.String()

	for {
		if ctx.Err() != nil {
			return nil
		}

		choice, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}

		idx, convErr := strconv.Atoi(choice)
		if convErr != nil || idx < 1 || idx > len(items) {
			a.println("Invalid choice. Try again.")
			continue
		}

		leave, err := items[idx-1].action(ctx)
		if err != nil {
			return err
		}
		if leave {
			return nil
		}
	}
}

func logOut(context.Context) (bool, error) {
	return true, nil
}
