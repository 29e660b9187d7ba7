package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/dmitrijs2005/gophlibrary/internal/textx"
)

//go:embed templates/*.html
var templateFiles embed.FS

type templateData struct {
	FlashInfo  string
	FlashError string
	User       *models.User
	Books      []models.Book
	Loans      []models.LoanView
}

// CanBorrow and CanManageCatalog select the panel shown next to the
// inventory.
func (d *templateData) CanBorrow() bool {
	return d.User != nil && d.User.Role.CanBorrow()
}

func (d *templateData) CanManageCatalog() bool {
	return d.User != nil && d.User.Role.CanManageCatalog()
}

var templateFuncs = template.FuncMap{
	"title": textx.Title,
	"date": func(t time.Time) string {
		return t.Local().Format("2006-01-02")
	},
}

func newTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
}

func (s *Server) newTemplateData(r *http.Request) *templateData {
	td := &templateData{
		FlashInfo:  s.session.PopString(r.Context(), sessionFlashInfo),
		FlashError: s.session.PopString(r.Context(), sessionFlashError),
	}
	if sess, ok := sessionFrom(r.Context()); ok {
		td.User = sess.User
	}
	return td
}

// render executes the page into a buffer first so a template error still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data *templateData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "base", data); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed",
		"request_id", requestIDFrom(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}
