package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/textx"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	data := s.newTemplateData(r)

	if data.User != nil {
		books, err := s.catalog.ListInventory(r.Context())
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		data.Books = books

		if data.CanBorrow() {
			loans, err := s.loans.ListLoans(r.Context(), data.User.ID)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			data.Loans = loans
		}
	}

	s.render(w, r, http.StatusOK, data)
}

// fail reports a business outcome as a flash message on the home page and
// anything else as a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !common.IsExpected(err) {
		s.serverError(w, r, err)
		return
	}
	s.flashError(r, common.Describe(err))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) done(w http.ResponseWriter, r *http.Request, msg string) {
	s.flashInfo(r, msg)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// signin signs the visitor in, creating the account on first use.
func (s *Server) signin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.clientError(w, http.StatusBadRequest)
		return
	}

	role, err := models.ParseRole(r.PostForm.Get("role"))
	if err != nil {
		s.flashError(r, "Please choose member or librarian.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user, created, err := s.users.ResolveOrCreate(r.Context(), r.PostForm.Get("name"), role)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.session.RenewToken(r.Context()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.session.Put(r.Context(), sessionUserIDKey, user.ID)

	if created {
		s.done(w, r, "Account created.")
		return
	}
	s.done(w, r, fmt.Sprintf("Welcome back, %s.", textx.Title(user.Name)))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RenewToken(r.Context()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.session.Remove(r.Context(), sessionUserIDKey)
	s.done(w, r, "Signed out.")
}

// formID reads a positive id field; ok is false after a 400 was written.
func (s *Server) formID(w http.ResponseWriter, r *http.Request, field string) (int64, bool) {
	id, err := strconv.ParseInt(r.PostFormValue(field), 10, 64)
	if err != nil || id < 1 {
		s.clientError(w, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// formAmount reads a copy count. Bad values are a business error, not a
// malformed request.
func formAmount(r *http.Request) (int, error) {
	n, err := strconv.Atoi(r.PostFormValue("n"))
	if err != nil || n < 1 {
		return 0, common.ErrInvalidAmount
	}
	return n, nil
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	bookID, ok := s.formID(w, r, "book_id")
	if !ok {
		return
	}

	if _, err := s.loans.Checkout(r.Context(), sess.User.ID, bookID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "Book checked out!")
}

func (s *Server) returnBook(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	bookID, ok := s.formID(w, r, "book_id")
	if !ok {
		return
	}

	if err := s.loans.Return(r.Context(), sess.User.ID, bookID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "Returned. Thank you!")
}

func (s *Server) endMembership(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	returned, err := s.users.TerminateMembership(r.Context(), sess.User.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.session.RenewToken(r.Context()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.session.Remove(r.Context(), sessionUserIDKey)

	if returned > 0 {
		s.done(w, r, fmt.Sprintf("Membership ended. %d borrowed book(s) were returned.", returned))
		return
	}
	s.done(w, r, "Membership ended.")
}

func (s *Server) addBook(w http.ResponseWriter, r *http.Request) {
	adj, err := s.catalog.AddTitle(r.Context(), r.PostFormValue("title"), r.PostFormValue("author"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, fmt.Sprintf("Added '%s'.", textx.Title(adj.Book.Title)))
}

func (s *Server) addCopies(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.formID(w, r, "book_id")
	if !ok {
		return
	}
	n, err := formAmount(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	book, err := s.catalog.GetBook(r.Context(), bookID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.catalog.AddCopies(r.Context(), book.Title, book.Author, n); err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "Copies added.")
}

// removeCopies never removes more than the copies on the shelf.
func (s *Server) removeCopies(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.formID(w, r, "book_id")
	if !ok {
		return
	}
	n, err := formAmount(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	book, err := s.catalog.GetBook(r.Context(), bookID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if n > book.Qty {
		s.flashError(r, fmt.Sprintf("Only %d copies of '%s' can be removed.", book.Qty, textx.Title(book.Title)))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := s.catalog.RemoveCopies(r.Context(), book.Title, book.Author, n); err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "Removed copies.")
}
