package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
)

// getSimpleText, getPositiveInt and getRole are indirections used to
// facilitate testing.
var getSimpleText = GetSimpleText
var getPositiveInt = GetPositiveInt
var getRole = GetRole

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	p := "> "
	if prompt != "" {
		p = prompt + "\n> "
	}
	if _, err := fmt.Fprint(w, p); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPositiveInt keeps asking until the user enters a whole number greater
// than zero.
func GetPositiveInt(reader *bufio.Reader, prompt string, w io.Writer) (int, error) {
	for {
		text, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(w, "Please enter a positive whole number.")
	}
}

const roleMenu = "Enter the number corresponding to the type of user:\n" +
	"1. Librarian\n" +
	"2. Member\n" +
	"3. Return to main menu"

// GetRole asks for a role. ok is false when the user chose to go back.
func GetRole(reader *bufio.Reader, w io.Writer) (role models.Role, ok bool, err error) {
	for {
		choice, err := GetSimpleText(reader, roleMenu, w)
		if err != nil {
			return "", false, err
		}
		switch choice {
		case "1":
			return models.RoleLibrarian, true, nil
		case "2":
			return models.RoleMember, true, nil
		case "3":
			return "", false, nil
		}
		if r, err := models.ParseRole(choice); err == nil {
			return r, true, nil
		}
		fmt.Fprintln(w, "Invalid choice. Try again.")
	}
}
