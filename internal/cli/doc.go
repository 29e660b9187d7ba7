// Package cli provides the interactive terminal front end of the library.
//
// It is a numbered-menu loop: a welcome menu (sign up, sign in, exit) leads
// to a member or librarian menu depending on the signed-in user's role.
// Every action prints a one-line outcome; storage failures are logged and
// reported with a generic message. App.Run blocks until the user exits or
// the input ends.
package cli
