package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tokopintar/catalog-backend/api/responses"
	"github.com/tokopintar/catalog-backend/internal/identity"
	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
	"github.com/tokopintar/catalog-backend/pkg/logger"
)

type identityResolver interface {
	Resolve(ctx context.Context, token string) (*identity.Identity, error)
}

// OptionalAuth attaches the authenticated user to the context when a valid
// bearer token is present. Requests without credentials, and requests whose
// credentials fail to resolve, continue as anonymous.
func OptionalAuth(resolver identityResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || resolver == nil {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "reason", err.Error())
					logg.Warn(ctx, "auth.optional.rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithActor(r.Context(), actor.UserID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    actor.UserID.String(),
					"actor_role": actor.Role,
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that do not carry a resolvable bearer token.
func RequireAuth(resolver identityResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
				return
			}

			actor, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithActor(r.Context(), actor.UserID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    actor.UserID.String(),
					"actor_role": actor.Role,
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
