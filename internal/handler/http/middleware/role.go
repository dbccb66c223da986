package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
)

// RequirePermission checks if the caller's role grants permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, i18n.T(r.Context(), "Unauthorized"))
				return
			}

			if !actor.Can(permission) {
				response.Error(w, http.StatusForbidden, "FORBIDDEN", i18n.T(r.Context(), "Forbidden"), map[string]string{
					"required": string(permission),
					"role":     string(actor.Role),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission passes when the role grants at least one of permissions
func RequireAnyPermission(permissions ...user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, i18n.T(r.Context(), "Unauthorized"))
				return
			}

			for _, p := range permissions {
				if actor.Can(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, i18n.T(r.Context(), "Forbidden"))
		})
	}
}
