package middleware

import (
	"context"
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/logging"

	"github.com/go-chi/chi/v5"
)

// CourseAccessChecker answers course permission questions for a caller.
type CourseAccessChecker interface {
	CanAccessCourse(ctx context.Context, claims auth.UserClaims, courseID string) (bool, error)
	IsCourseAdmin(ctx context.Context, claims auth.UserClaims, courseID string) (bool, error)
}

// IsMemberMiddleware admits active members of the {courseId} course,
// its admins and platform admins.
func IsMemberMiddleware(checker CourseAccessChecker) func(http.Handler) http.Handler {
	return courseGate(checker.CanAccessCourse, "Forbidden. Not a member of this course")
}

func courseGate(check func(context.Context, auth.UserClaims, string) (bool, error), denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			claims := auth.GetUserClaims(r.Context())
			courseID := chi.URLParam(r, "courseId")

			ok, err := check(r.Context(), claims, courseID)
			if err != nil {
				logging.Error("Course permission check failed", "course_id", courseID, "error", err.Error())
				common.RespondError(w, start, err, "Failed to check course permissions")
				return
			}
			if !ok {
				common.RespondError(w, start, nil, denied, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
