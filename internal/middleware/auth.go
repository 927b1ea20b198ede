package middleware

import (
	"net/http"

	"larder/internal/auth"
	"larder/internal/store"
)

const sessionCookieName = "auth_token"

// RequireAuth resolves the auth_token cookie to a stored session and puts an
// auth.Session on the request context. Anything without a live session is
// sent to the password prompt.
// HTMX-aware: returns an HX-Redirect header instead of a 303 for HTMX
// requests so the whole page navigates, not just the swapped fragment.
func RequireAuth(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}

			ctx := auth.WithSession(r.Context(), auth.Session{
				SessionID: sess.ID,
				ExpiresAt: sess.ExpiresAt,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
