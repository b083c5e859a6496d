package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/warelog/warelog/internal/auth"
)

// SessionChecker reports whether a session token id has been revoked.
// *redis.Sessions satisfies this interface.
type SessionChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionCookie is the cookie holding the signed session token for the
// server-rendered admin pages.
const SessionCookie = "warelog_session"

// SessionAuth authenticates server-rendered page requests from the session
// cookie. Unauthenticated requests are redirected to the login page and no
// further work is done.
func SessionAuth(jwtSecret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx, ok := authenticate(r.Context(), cookie.Value, jwtSecret, sessions)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Auth authenticates API requests from a Bearer token. Failures answer 401
// JSON; the API never redirects.
func Auth(jwtSecret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := extractBearer(r); tok != "" {
				ctx, ok := authenticate(r.Context(), tok, jwtSecret, sessions)
				if ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}

func authenticate(ctx context.Context, tokenStr, secret string, sessions SessionChecker) (context.Context, bool) {
	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		return ctx, false
	}

	if sessions != nil {
		revoked, err := sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: an unreachable revocation store must not let
			// logged-out sessions back in.
			log.Warn().Err(err).Msg("auth: revocation check failed")
			return ctx, false
		}
		if revoked {
			return ctx, false
		}
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return ctx, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx, false
	}

	ctx = context.WithValue(ctx, ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, ContextKeyUserRole, claims.Role)
	ctx = context.WithValue(ctx, ContextKeyUsername, claims.Name)
	return ctx, true
}
