package middleware

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
)

// IsPlatformAdminMiddleware lets the creator and top admins through.
func IsPlatformAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if !auth.IsPlatformAdmin(claims) {
				common.RespondError(w, time.Now(), nil, "Forbidden. Need platform admin perms", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
