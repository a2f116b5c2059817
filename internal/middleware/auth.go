package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/logging"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
	"infinite-experiment/coursehub/internal/services"
)

// UserResolver turns a verified identity into a registry user and claims.
type UserResolver interface {
	EnsureUser(ctx context.Context, p *auth.Principal) (*gormModels.User, error)
	BuildClaims(ctx context.Context, user *gormModels.User) (*auth.SessionClaims, error)
}

// AuthMiddleware verifies the bearer token, provisions the user on first
// login and stores the claims in the request context.
func AuthMiddleware(verifier auth.Verifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, start, nil, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				common.RespondError(w, start, nil, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			user, err := users.EnsureUser(r.Context(), principal)
			if err != nil {
				if errors.Is(err, services.ErrBanned) {
					common.RespondError(w, start, nil, "Account is banned", http.StatusForbidden)
					return
				}
				logging.Error("Failed to load user", "user_id", principal.ID, "error", err.Error())
				common.RespondError(w, start, err, "Failed to load user")
				return
			}

			claims, err := users.BuildClaims(r.Context(), user)
			if err != nil {
				logging.Error("Failed to build claims", "user_id", user.ID, "error", err.Error())
				common.RespondError(w, start, err, "Failed to load user roles")
				return
			}

			ctx := auth.SetPrincipal(r.Context(), principal)
			ctx = auth.SetUserClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
