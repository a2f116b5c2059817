package routes

import (
	"infinite-experiment/coursehub/internal/api"
	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers every /api route. All of them need a verified
// bearer token; role gates narrow them further.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, verifier auth.Verifier, limiter *middleware.RateLimiter) {
	svc := deps.Services

	r.Route("/api", func(v chi.Router) {
		if limiter != nil {
			v.Use(limiter.Middleware)
		}
		v.Use(middleware.AuthMiddleware(verifier, svc.User)) // global: all routes must be authenticated

		v.Get("/auth/me", api.MeHandler(svc.User))
		v.Patch("/auth/profile", api.UpdateProfileHandler(svc.User))
		v.Get("/badges/me", api.MyBadgesHandler(svc.Badges))

		v.Get("/dashboard/stats", api.DashboardStatsHandler(svc.Aggregator))
		v.Get("/dashboard/assignments", api.DashboardAssignmentsHandler(svc.Aggregator))
		v.Get("/leaderboard", api.GlobalLeaderboardHandler(svc.Aggregator))

		v.Get("/notifications", api.ListNotificationsHandler(svc.Notifications))
		v.Post("/notifications/{id}/read", api.MarkNotificationReadHandler(svc.Notifications))
		v.Delete("/notifications/{id}", api.DeleteNotificationHandler(svc.Notifications))

		v.Get("/pinned", api.ListPinnedHandler(svc.Pinned))
		v.Get("/settings", api.ListSettingsHandler(svc.Settings))
		v.Get("/settings/{key}", api.GetSettingHandler(svc.Settings))

		v.Get("/courses", api.ListMyCoursesHandler(svc.Course))

		// Member-only group for one course
		v.Route("/courses/{courseId}", func(member chi.Router) {
			member.Use(middleware.IsMemberMiddleware(svc.Role))

			member.Get("/", api.GetCourseHandler(svc.Course))

			member.Get("/posts", api.ListPostsHandler(svc.Content))
			member.Post("/posts", api.CreatePostHandler(svc.Content))
			member.Get("/posts/{postId}", api.GetPostHandler(svc.Content))
			member.Patch("/posts/{postId}", api.UpdatePostHandler(svc.Content))
			member.Delete("/posts/{postId}", api.DeletePostHandler(svc.Content))

			member.Get("/posts/{postId}/comments", api.ListCommentsHandler(svc.Content))
			member.Post("/posts/{postId}/comments", api.CreateCommentHandler(svc.Content))
			member.Patch("/comments/{commentId}", api.UpdateCommentHandler(svc.Content))
			member.Delete("/comments/{commentId}", api.DeleteCommentHandler(svc.Content))

			member.Get("/reactions", api.ReactionsHandler(svc.Content))
			member.Post("/reactions", api.ToggleReactionHandler(svc.Content))

			member.Put("/posts/{postId}/completion", api.SetCompletionHandler(svc.Content))
			member.Get("/assignments/status", api.MyAssignmentStatusesHandler(svc.Content))
			member.Get("/leaderboard", api.CourseLeaderboardHandler(svc.Content))

			// Course admin group
			member.Group(func(staff chi.Router) {
				staff.Use(middleware.IsCourseAdminMiddleware(svc.Role))
				staff.Patch("/", api.UpdateCourseHandler(svc.Course))
				staff.Get("/members", api.ListMembersHandler(svc.Course))
			})
		})

		// Creator-only group
		v.Group(func(creator chi.Router) {
			creator.Use(middleware.IsCreatorMiddleware())
			creator.Put("/settings/{key}", api.UpsertSettingHandler(svc.Settings))
		})

		// Platform admin group (creator or top_admin)
		v.Group(func(admin chi.Router) {
			admin.Use(middleware.IsPlatformAdminMiddleware())

			admin.Post("/courses", api.CreateCourseHandler(svc.Course))
			admin.Post("/roles/assign", api.AssignRoleHandler(svc.Role))
			admin.Delete("/roles/{roleId}", api.RevokeRoleHandler(svc.Role))

			admin.Post("/pinned", api.CreatePinnedHandler(svc.Pinned))
			admin.Patch("/pinned/{id}", api.UpdatePinnedHandler(svc.Pinned))
			admin.Delete("/pinned/{id}", api.DeletePinnedHandler(svc.Pinned))

			admin.Get("/admin/users", api.ListUsersHandler(svc.User))
			admin.Post("/admin/users/{userId}/ban", api.SetBannedHandler(svc.User, true))
			admin.Post("/admin/users/{userId}/unban", api.SetBannedHandler(svc.User, false))
			admin.Get("/admin/users/{userId}/roles", api.UserRolesHandler(svc.Role))
			admin.Post("/admin/users/{userId}/badges", api.AwardBadgeHandler(svc.Badges))

			admin.Get("/admin/courses", api.ListAllCoursesHandler(svc.Course))
			admin.Post("/admin/courses/{courseId}/archive", api.SetCourseActiveHandler(svc.Course, false))
			admin.Post("/admin/courses/{courseId}/restore", api.SetCourseActiveHandler(svc.Course, true))
			admin.Put("/admin/courses/{courseId}/credentials", api.RotateCredentialsHandler(svc.Course))

			admin.Get("/admin/courses/{courseId}/members", api.ListMembersHandler(svc.Course))
			admin.Post("/admin/courses/{courseId}/members", api.AddMemberHandler(svc.Course))
			admin.Patch("/admin/courses/{courseId}/members/{userId}", api.UpdateMemberHandler(svc.Course))
			admin.Delete("/admin/courses/{courseId}/members/{userId}", api.RemoveMemberHandler(svc.Course))
		})
	})
}
