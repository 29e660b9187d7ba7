package web

import (
	"net/http"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
)

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	borrower := func(h http.HandlerFunc) http.Handler { return s.requireCapability(models.Role.CanBorrow, h) }
	librarian := func(h http.HandlerFunc) http.Handler { return s.requireCapability(models.Role.CanManageCatalog, h) }

	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /healthz", s.healthz)

	mux.HandleFunc("POST /signin", s.signin)
	mux.HandleFunc("POST /logout", s.logout)

	mux.Handle("POST /loans", borrower(s.checkout))
	mux.Handle("POST /loans/return", borrower(s.returnBook))
	mux.Handle("POST /membership/end", borrower(s.endMembership))

	mux.Handle("POST /books", librarian(s.addBook))
	mux.Handle("POST /books/copies", librarian(s.addCopies))
	mux.Handle("POST /books/remove", librarian(s.removeCopies))

	return s.logRequests(s.session.LoadAndSave(s.authenticate(mux)))
}
