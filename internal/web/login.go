package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

type loginPageData struct {
	Error  string
	Tenant string
	Email  string
}

// HandleLoginPage renders the login form.
func (h *Handlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", loginPageData{})
}

// HandleLogin authenticates the submitted credentials and, on success, sets
// the session cookie and forwards to the activity browser.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "login.html", loginPageData{Error: "Invalid form submission."})
		return
	}

	tenant := strings.TrimSpace(r.PostFormValue("tenant"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if tenant == "" || email == "" || password == "" {
		h.render(w, "login.html", loginPageData{
			Error:  "Workspace, email and password are required.",
			Tenant: tenant,
			Email:  email,
		})
		return
	}

	token, user, err := h.auth.Login(r.Context(), tenant, email, password)
	if err != nil {
		log.Warn().Err(err).Str("tenant", tenant).Str("email", email).Msg("web: login rejected")
		h.render(w, "login.html", loginPageData{
			Error:  "Invalid credentials.",
			Tenant: tenant,
			Email:  email,
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.recordLoginActivity(r, user)

	http.Redirect(w, r, "/activity", http.StatusSeeOther)
}

// HandleLogout revokes the current session and clears the cookie. The user
// lands back on the login page either way.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			log.Warn().Err(err).Msg("web: logout revocation failed")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// recordLoginActivity happens before the auth middleware has run for this
// request, so the identity comes from the just-authenticated user rather
// than the request context.
func (h *Handlers) recordLoginActivity(r *http.Request, user *domain.User) {
	entry := &domain.ActivityLogEntry{
		ID:        uuid.New(),
		TenantID:  user.TenantID,
		Username:  user.Name,
		UserRole:  user.Role,
		Action:    "login",
		Details:   "Signed in",
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now(),
	}

	if err := h.store.ActivityLogs().Record(r.Context(), entry); err != nil {
		log.Warn().Err(err).Msg("web: login activity record failed")
	}
}
