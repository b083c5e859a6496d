// Package web serves the server-rendered admin pages: the activity-log
// browser and the treasury-accounts editor.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	ActivityLogs() domain.ActivityLogRepository
	TreasuryAccounts() domain.TreasuryAccountRepository
}

// AuthService abstracts login/logout for handler testing. *auth.Service
// satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, tenantSlug, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
}

// ActivityExporter streams a workbook of filtered activity entries.
// *export.ActivityExporter satisfies this interface.
type ActivityExporter interface {
	Export(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, w io.Writer) error
}

// Handlers holds the page handlers and their collaborators.
type Handlers struct {
	store         DataStore
	auth          AuthService
	exporter      ActivityExporter
	tmpl          templateExecutor
	sessionTTL    time.Duration
	secureCookies bool
}

type templateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func NewHandlers(store DataStore, authSvc AuthService, exporter ActivityExporter, sessionTTL time.Duration, secureCookies bool) (*Handlers, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web.NewHandlers: %w", err)
	}

	return &Handlers{
		store:         store,
		auth:          authSvc,
		exporter:      exporter,
		tmpl:          tmpl,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}, nil
}

// render executes a page template. A template failure at this point cannot
// be reported to the user anymore, so it is only logged by the caller's
// recoverer; the page is best-effort from here.
func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = h.tmpl.ExecuteTemplate(w, name, data)
}

type homePageData struct {
	Username string
	Role     string
}

// HandleHome is the default landing page. Roles with access to the
// activity browser are forwarded there; everyone else gets a plain
// landing page, so role-failure redirects back to "/" always terminate.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	username, _ := middleware.UsernameFromContext(r.Context())
	role, _ := middleware.RoleFromContext(r.Context())

	switch role {
	case domain.RoleAdmin, domain.RoleManager:
		http.Redirect(w, r, "/activity", http.StatusSeeOther)
	default:
		h.render(w, "home.html", homePageData{Username: username, Role: role})
	}
}
