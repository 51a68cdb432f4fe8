package middleware

import (
	"net/http"

	"github.com/starter-api/backend/internal/session"
)

// NewRequireAuthenticated refuses anonymous requests with 403 when
// required is true, and is a no-op otherwise.
func NewRequireAuthenticated(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.UserID(r.Context()) == "" {
				writeDetail(w, http.StatusForbidden, "Authentication credentials were not provided.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
