package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/warelog/internal/auth"
	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

const testSecret = "middleware-test-secret-0123456789abcdef"

type stubSessions struct {
	revoked bool
	err     error
}

func (s *stubSessions) IsRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

// okHandler records that it ran and checks the context identity.
func okHandler(t *testing.T, wantTenant, wantUser uuid.UUID, wantRole string) (http.Handler, *bool) {
	t.Helper()

	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		tid, ok := middleware.TenantIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantTenant, tid)

		uid, ok := middleware.UserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantUser, uid)

		role, ok := middleware.RoleFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantRole, role)

		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestSessionAuth(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()

	validToken := func(t *testing.T) string {
		t.Helper()
		tok, err := auth.IssueSessionToken(testSecret, tenantID, userID, domain.RoleAdmin, "Alice", time.Hour)
		require.NoError(t, err)
		return tok
	}

	t.Run("no_cookie_redirects_to_login", func(t *testing.T) {
		t.Parallel()

		handler, called := okHandler(t, tenantID, userID, domain.RoleAdmin)
		mw := middleware.SessionAuth(testSecret, &stubSessions{})(handler)

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.False(t, *called, "protected handler must not run")
	})

	t.Run("valid_cookie_populates_context", func(t *testing.T) {
		t.Parallel()

		handler, called := okHandler(t, tenantID, userID, domain.RoleAdmin)
		mw := middleware.SessionAuth(testSecret, &stubSessions{})(handler)

		req := httptest.NewRequest(http.MethodGet, "/activity", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: validToken(t)})

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("expired_token_redirects", func(t *testing.T) {
		t.Parallel()

		expired, err := auth.IssueSessionToken(testSecret, tenantID, userID, domain.RoleAdmin, "Alice", -time.Minute)
		require.NoError(t, err)

		handler, called := okHandler(t, tenantID, userID, domain.RoleAdmin)
		mw := middleware.SessionAuth(testSecret, &stubSessions{})(handler)

		req := httptest.NewRequest(http.MethodGet, "/treasury", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: expired})

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.False(t, *called)
	})

	t.Run("revoked_session_redirects", func(t *testing.T) {
		t.Parallel()

		handler, called := okHandler(t, tenantID, userID, domain.RoleAdmin)
		mw := middleware.SessionAuth(testSecret, &stubSessions{revoked: true})(handler)

		req := httptest.NewRequest(http.MethodGet, "/activity", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: validToken(t)})

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.False(t, *called)
	})

	t.Run("revocation_store_error_fails_closed", func(t *testing.T) {
		t.Parallel()

		handler, called := okHandler(t, tenantID, userID, domain.RoleAdmin)
		mw := middleware.SessionAuth(testSecret, &stubSessions{err: errors.New("redis down")})(handler)

		req := httptest.NewRequest(http.MethodGet, "/activity", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: validToken(t)})

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.False(t, *called)
	})
}

func TestAuth(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("missing_bearer_401", func(t *testing.T) {
		t.Parallel()

		handler, called := okHandler(t, tenantID, userID, domain.RoleStaff)
		mw := middleware.Auth(testSecret, &stubSessions{})(handler)

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("valid_bearer_ok", func(t *testing.T) {
		t.Parallel()

		tok, err := auth.IssueSessionToken(testSecret, tenantID, userID, domain.RoleStaff, "Bob", time.Hour)
		require.NoError(t, err)

		handler, called := okHandler(t, tenantID, userID, domain.RoleStaff)
		mw := middleware.Auth(testSecret, &stubSessions{})(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+tok)

		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withRole := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), middleware.ContextKeyUserRole, role)
		return req.WithContext(ctx)
	}

	t.Run("allowed_role_passes", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)(next).ServeHTTP(rec, withRole(domain.RoleManager))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong_role_403", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequireRole(domain.RoleAdmin)(next).ServeHTTP(rec, withRole(domain.RoleStaff))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing_role_401", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequireRole(domain.RoleAdmin)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePageRole(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withRole := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/treasury", nil)
		ctx := context.WithValue(req.Context(), middleware.ContextKeyUserRole, role)
		return req.WithContext(ctx)
	}

	t.Run("wrong_role_redirects_to_landing", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequirePageRole(domain.RoleAdmin)(next).ServeHTTP(rec, withRole(domain.RoleStaff))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("missing_role_redirects_to_login", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequirePageRole(domain.RoleAdmin)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/treasury", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("allowed_role_passes", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequirePageRole(domain.RoleAdmin, domain.RoleManager)(next).ServeHTTP(rec, withRole(domain.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing_tenant_403", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequireTenant()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "not bound to a workspace")
	})

	t.Run("tenant_present_passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), middleware.ContextKeyTenantID, uuid.New())

		rec := httptest.NewRecorder()
		middleware.RequireTenant()(next).ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := middleware.RateLimitByIP(ctx, 1, 2)(next)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	// Burst of 2 passes, third is throttled.
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different IP has its own limiter.
	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"

	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
