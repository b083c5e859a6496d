package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireTenant rejects API requests whose session is not bound to a
// workspace. Every table is tenant scoped, so such a request has nothing
// it could legally touch.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid, ok := TenantIDFromContext(r.Context())
			if !ok || tid == uuid.Nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"session is not bound to a workspace"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
