package middleware

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/logging"
)

// IsCreatorMiddleware only admits the platform creator.
func IsCreatorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims != nil && claims.IsCreator() {
				next.ServeHTTP(w, r)
				return
			}
			if claims != nil {
				logging.Warn("Creator route denied", "user_id", claims.UserID(), "path", r.URL.Path)
			}
			common.RespondError(w, time.Now(), nil, "Forbidden. Need creator perms", http.StatusForbidden)
		})
	}
}
