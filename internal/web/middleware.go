package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/google/uuid"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests tags every request with an id and logs its outcome.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		ctx := withRequestID(r.Context(), id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.Info(ctx, "request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// authenticate resolves the session's user id to a Session in the request
// context. A user that no longer exists ends the session silently.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := s.session.GetInt64(ctx, sessionUserIDKey)
		if userID == 0 {
			next.ServeHTTP(w, r.WithContext(withSession(ctx, &Session{})))
			return
		}

		user, err := s.users.GetUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, common.ErrUserNotFound) {
				s.serverError(w, r, err)
				return
			}
			s.session.Remove(ctx, sessionUserIDKey)
			user = nil
		}

		next.ServeHTTP(w, r.WithContext(withSession(ctx, &Session{User: user})))
	})
}

// requireCapability lets the request through only for a signed-in user
// whose role passes can.
func (s *Server) requireCapability(can func(models.Role) bool, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFrom(r.Context())
		if !ok {
			s.flashError(r, "Please sign in first.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !can(sess.User.Role) {
			s.clientError(w, http.StatusForbidden)
			return
		}
		next(w, r)
	})
}
