package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"larder/internal/auth"
	"larder/internal/store"
)

const sessionCookieName = "auth_token"

// AuthHandler runs the access gate: one shared password for the household,
// a server-issued random token on success, nothing persisted that could
// reconstruct the secret.
type AuthHandler struct {
	gate         *auth.Gate
	sessionStore *store.SessionStore
	templates    *template.Template
	logger       *slog.Logger
}

func NewAuthHandler(gate *auth.Gate, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/login.html"))
	return &AuthHandler{
		gate:         gate,
		sessionStore: ss,
		templates:    tmpl,
		logger:       logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// A visitor with a live session has no business on the prompt.
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	h.templates.ExecuteTemplate(w, "login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	if !h.gate.Verify(r.FormValue("password")) {
		// Denied is transient: show the error and prompt again. No attempt
		// counter, no lockout.
		w.WriteHeader(http.StatusUnauthorized)
		h.templates.ExecuteTemplate(w, "login.html", map[string]any{
			"Error": "Wrong password. Try again.",
		})
		return
	}

	sess, err := h.sessionStore.Create()
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(store.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout erases the session server-side, not just the cookie: the token must
// stop working even if a client kept a copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			if err := h.sessionStore.Delete(sess.ID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
