package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/session"
)

// WithSession resolves the session cookie into a session, creating an
// anonymous one when the cookie is absent or stale. The session rides
// the request context; handlers read it with session.FromContext.
func WithSession(store session.Store, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session

			if cookie, err := r.Cookie(session.CookieName); err == nil {
				sess, err = store.Get(r.Context(), cookie.Value)
				if err != nil && !errors.Is(err, session.ErrNotFound) {
					respondWithError(w, r, err)
					return
				}
			}

			if sess == nil {
				fresh, err := session.New()
				if err != nil {
					respondWithError(w, r, domain.Internal(err, "middleware.WithSession", "failed to create session"))
					return
				}
				if err := store.Save(r.Context(), fresh); err != nil {
					respondWithError(w, r, err)
					return
				}
				sess = fresh

				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
			}

			ctx := session.WithContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests whose session holds no backend credential.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if !sess.Authenticated() {
			respondWithError(w, r, domain.Unauthorized("middleware.RequireAuth", "Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a subtree to specific roles. The session user's role
// is a closed set, so an exact match is the whole check; the backend
// still enforces its own authorization on every proxied call.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if !sess.Authenticated() {
				respondWithError(w, r, domain.Unauthorized("middleware.RequireRole", "Authentication required"))
				return
			}
			if !allowed[sess.User.Role] {
				GetLogger(r.Context()).Warn("role rejected",
					slog.String("role", string(sess.User.Role)),
					slog.String("path", r.URL.Path),
				)
				respondWithError(w, r, domain.Forbidden("middleware.RequireRole", "Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
