// Package common defines the sentinel errors shared by the domain services
// and both front ends. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrUserNotFound = errors.New("user not found")
	ErrBookNotFound = errors.New("book not found")
	ErrLoanNotFound = errors.New("loan not found")

	// Role errors.
	ErrRoleMismatch = errors.New("role mismatch")
	ErrNotPermitted = errors.New("not permitted for this role")

	// Validation errors.
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidInput  = errors.New("invalid input")

	// Circulation errors.
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrLoanLimitExceeded = errors.New("loan limit exceeded")
	ErrLoansOutstanding  = errors.New("loans outstanding")

	// ErrorNotFound is returned by repositories when a row does not exist.
	// Services translate it into one of the specific lookup errors above.
	ErrorNotFound = errors.New("not found")

	// ErrorInternal covers storage failures that callers cannot act on.
	ErrorInternal = errors.New("internal error")
)
