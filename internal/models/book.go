package models

import "time"

// Book is one catalog title with the number of copies on the shelf.
type Book struct {
	ID     int64
	Title  string
	Author string
	Qty    int
}

// Loan records that a user holds one copy of a book.
type Loan struct {
	ID         int64
	UserID     int64
	BookID     int64
	BorrowedAt time.Time
}

// LoanView is a loan joined with its book for display.
type LoanView struct {
	LoanID     int64
	BookID     int64
	Title      string
	Author     string
	BorrowedAt time.Time
}
