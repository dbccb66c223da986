package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// WithActor stores the authenticated caller on ctx.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}

// AuthRequired rejects requests without a verified access token and stores
// the caller as a user.Actor for handlers and RequirePermission.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, claims, err := jwtauth.FromContext(ctx)
		if err != nil || token == nil {
			response.Unauthorized(w, i18n.T(ctx, "Unauthorized"))
			return
		}

		if !jwt.IsAccessToken(claims) {
			response.Unauthorized(w, i18n.T(ctx, "Unauthorized"))
			return
		}

		actor, err := jwt.ActorFromClaims(claims)
		if err != nil {
			response.Unauthorized(w, i18n.T(ctx, "Unauthorized"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(ctx, actor)))
	})
}

// RequireEmployee guards self-service routes that act on the caller's own
// employee profile.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, i18n.T(r.Context(), "Unauthorized"))
			return
		}
		if actor.EmployeeID == "" {
			response.HandleError(w, r, user.ErrEmployeeIDRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
