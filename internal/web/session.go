package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/dmitrijs2005/gophlibrary/internal/dbx"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
)

const (
	sessionUserIDKey  = "userID"
	sessionFlashInfo  = "flash_info"
	sessionFlashError = "flash_error"
)

// NewSessionManager keeps sessions in the sessions table on PostgreSQL and
// in process memory otherwise.
func NewSessionManager(db *sql.DB, dialect dbx.Dialect, lifetime time.Duration) *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = lifetime
	sm.Cookie.Name = "library_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode

	if dialect == dbx.Postgres {
		sm.Store = postgresstore.New(db)
	} else {
		sm.Store = memstore.New()
	}
	return sm
}

// Session is the signed-in user of the current request. The user is
// re-read from the store on every request.
type Session struct {
	User *models.User
}

type contextKey string

const (
	sessionContextKey   contextKey = "session"
	requestIDContextKey contextKey = "request_id"
)

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func sessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok && s.User != nil
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

func (s *Server) flashInfo(r *http.Request, msg string) {
	s.session.Put(r.Context(), sessionFlashInfo, msg)
}

func (s *Server) flashError(r *http.Request, msg string) {
	s.session.Put(r.Context(), sessionFlashError, msg)
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}
