package middleware

import (
	"context"
	"net/http"
	"strings"

	"courseboard/internal/app/authz"
	"courseboard/internal/common"
	"courseboard/internal/common/security"
	"courseboard/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const actorCtxKey contextKey = "actor"

// Authenticator resolves the JWT claims into an explicit authz.Actor and
// threads it through the request context. Handlers never consult any
// ambient identity beyond this value.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		actor, err := security.ActorFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorCtxKey, actor)))
	})
}

// AdminOnly guards admin surfaces at the routing layer; services still
// run their own checks before any store write.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActorFromContext(r.Context())
		if !ok || authz.RequireRole(actor, model.RoleAdmin) != nil {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetActorFromContext returns the authenticated principal, if any.
func GetActorFromContext(ctx context.Context) (authz.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey).(authz.Actor)
	return actor, ok
}
