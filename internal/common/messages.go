package common

import "errors"

// Describe returns the one-line message a front end shows for err.
// Errors outside the taxonomy are reported as a generic failure; the caller
// is expected to log the original error.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserNotFound):
		return "No user with that name was found. Please sign up first."
	case errors.Is(err, ErrRoleMismatch):
		return "Role mismatch for this name. Try the other option."
	case errors.Is(err, ErrNotPermitted):
		return "This action is not available for your role."
	case errors.Is(err, ErrInvalidAmount):
		return "Please enter a positive whole number."
	case errors.Is(err, ErrInvalidInput):
		return "Name, title and author must not be empty."
	case errors.Is(err, ErrBookNotFound):
		return "Book not in catalog."
	case errors.Is(err, ErrNoCopiesAvailable):
		return "No available copies right now."
	case errors.Is(err, ErrLoanLimitExceeded):
		return "You already have the maximum number of books. Return one first."
	case errors.Is(err, ErrLoanNotFound):
		return "You did not borrow this book."
	case errors.Is(err, ErrLoansOutstanding):
		return "Please return all borrowed books before ending the membership."
	default:
		return "Something went wrong. Please try again later."
	}
}

// IsExpected reports whether err belongs to the closed set of business
// outcomes. Anything else is an infrastructure failure.
func IsExpected(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrRoleMismatch, ErrNotPermitted, ErrInvalidAmount, ErrInvalidInput,
		ErrBookNotFound, ErrNoCopiesAvailable, ErrLoanLimitExceeded,
		ErrLoanNotFound, ErrLoansOutstanding,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
