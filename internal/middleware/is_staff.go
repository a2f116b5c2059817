package middleware

import "net/http"

// IsCourseAdminMiddleware admits admins of the {courseId} course and
// platform admins.
func IsCourseAdminMiddleware(checker CourseAccessChecker) func(http.Handler) http.Handler {
	return courseGate(checker.IsCourseAdmin, "Forbidden. Need course admin perms")
}
