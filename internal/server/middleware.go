package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"egazette/internal"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyToken  contextKey = "token"
)

// session is the encrypted cookie payload. The token is the opaque upstream
// session token; the portal never interprets it.
type session struct {
	UserID string
	Token  string
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth checks the encrypted session cookie and adds the user to the
// request context. This is a JSON API, so a missing or bad session is a 401
// rather than a login redirect.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(internal.COOKIE_SESSION_NAME)
		if err != nil {
			s.logger.WithError(err).Debug("no session cookie found")
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var sess session
		err = s.cookie.Decode(internal.COOKIE_SESSION_NAME, cookie.Value, &sess)
		if err != nil {
			s.logger.WithError(err).Error("failed to decrypt session cookie")
			s.respondError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		if sess.UserID == "" {
			s.respondError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyUserID, sess.UserID)
		ctx = context.WithValue(ctx, contextKeyToken, sess.Token)

		s.logger.WithField("user_id", sess.UserID).Debug("authenticated user")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok || userID == "" {
		return "", errors.New("no user id in request context")
	}
	return userID, nil
}

func (s *Service) setSessionCookie(w http.ResponseWriter, sess session) error {
	encoded, err := s.cookie.Encode(internal.COOKIE_SESSION_NAME, sess)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_SESSION_NAME,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
	return nil
}

func (s *Service) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_SESSION_NAME,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
