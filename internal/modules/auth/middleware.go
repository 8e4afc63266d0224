package auth

import (
	"net/http"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/httpx"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

// Require rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func (t *TokenService) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := t.FromRequest(r)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRoles allows only callers whose role is in roles. It must run
// after Require.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				httpx.Error(w, apperr.New(apperr.KindUnauthorized, "Unauthorized"))
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, apperr.New(apperr.KindForbidden, "Forbidden. Insufficient permissions."))
		})
	}
}
