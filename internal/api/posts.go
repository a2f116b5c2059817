package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/models/dtos"
	"infinite-experiment/coursehub/internal/services"

	"github.com/go-chi/chi/v5"
)

// ListPostsHandler handles GET /api/courses/{courseId}/posts
//
// @Summary      List course posts
// @Description  Oldest first. An unreachable course database yields an empty list.
// @Tags         Content
// @Produce      json
// @Param        courseId  path   string  true   "Course ID"
// @Param        type      query  string  false  "post, assignment or announcement"
// @Param        limit     query  int     false  "Page size"  default(50)
// @Param        offset    query  int     false  "Offset"     default(0)
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/courses/{courseId}/posts [get]
func ListPostsHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		opts := repositories.ListOptions{
			Limit:  common.QueryInt(r, "limit", constants.DefaultPostPageSize),
			Offset: common.QueryInt(r, "offset", 0),
			Kind:   constants.PostKind(r.URL.Query().Get("type")),
		}
		posts, err := contentSvc.ListPosts(r.Context(), chi.URLParam(r, "courseId"), opts)
		respondList(w, r, initTime, posts, err, "Posts")
	}
}

// GetPostHandler handles GET /api/courses/{courseId}/posts/{postId}
func GetPostHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		post, err := contentSvc.GetPost(r.Context(), chi.URLParam(r, "courseId"), chi.URLParam(r, "postId"))
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to fetch post")
			return
		}
		common.RespondSuccess(w, initTime, "Post fetched successfully", post)
	}
}

// CreatePostHandler handles POST /api/courses/{courseId}/posts
//
// @Summary      Create post
// @Description  Assignments, announcements and pinned posts need course admin rights
// @Tags         Content
// @Accept       json
// @Produce      json
// @Param        courseId  path  string                  true  "Course ID"
// @Param        input     body  dtos.CreatePostRequest  true  "Post"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400,403,503  {object}  dtos.APIResponse
// @Router       /api/courses/{courseId}/posts [post]
func CreatePostHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.CreatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		post, err := contentSvc.CreatePost(r.Context(), claims, chi.URLParam(r, "courseId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to create post")
			return
		}
		common.RespondSuccess(w, initTime, "Post created", post, http.StatusCreated)
	}
}

// UpdatePostHandler handles PATCH /api/courses/{courseId}/posts/{postId}
func UpdatePostHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.UpdatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		post, err := contentSvc.UpdatePost(r.Context(), claims, chi.URLParam(r, "courseId"), chi.URLParam(r, "postId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update post")
			return
		}
		common.RespondSuccess(w, initTime, "Post updated", post)
	}
}

// DeletePostHandler handles DELETE /api/courses/{courseId}/posts/{postId}
func DeletePostHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		if err := contentSvc.DeletePost(r.Context(), claims, chi.URLParam(r, "courseId"), chi.URLParam(r, "postId")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to delete post")
			return
		}
		common.RespondSuccess(w, initTime, "Post deleted", nil)
	}
}

// ListCommentsHandler handles GET /api/courses/{courseId}/posts/{postId}/comments
func ListCommentsHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		comments, err := contentSvc.ListComments(r.Context(), chi.URLParam(r, "courseId"), chi.URLParam(r, "postId"))
		respondList(w, r, initTime, comments, err, "Comments")
	}
}

// CreateCommentHandler handles POST /api/courses/{courseId}/posts/{postId}/comments
func CreateCommentHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.CreateCommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		comment, err := contentSvc.CreateComment(r.Context(), claims, chi.URLParam(r, "courseId"), chi.URLParam(r, "postId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to create comment")
			return
		}
		common.RespondSuccess(w, initTime, "Comment created", comment, http.StatusCreated)
	}
}

// UpdateCommentHandler handles PATCH /api/courses/{courseId}/comments/{commentId}
func UpdateCommentHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.UpdateCommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		comment, err := contentSvc.UpdateComment(r.Context(), claims, chi.URLParam(r, "courseId"), chi.URLParam(r, "commentId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update comment")
			return
		}
		common.RespondSuccess(w, initTime, "Comment updated", comment)
	}
}

// DeleteCommentHandler handles DELETE /api/courses/{courseId}/comments/{commentId}
func DeleteCommentHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		if err := contentSvc.DeleteComment(r.Context(), claims, chi.URLParam(r, "courseId"), chi.URLParam(r, "commentId")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to delete comment")
			return
		}
		common.RespondSuccess(w, initTime, "Comment deleted", nil)
	}
}

// ToggleReactionHandler handles POST /api/courses/{courseId}/reactions
//
// @Summary      Toggle reaction
// @Description  Adds a reaction, switches its kind, or removes it when the same kind is sent again
// @Tags         Content
// @Accept       json
// @Produce      json
// @Param        courseId  path  string                true  "Course ID"
// @Param        input     body  dtos.ReactionRequest  true  "Reaction"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/courses/{courseId}/reactions [post]
func ToggleReactionHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.ReactionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		res, err := contentSvc.ToggleReaction(r.Context(), claims, chi.URLParam(r, "courseId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to toggle reaction")
			return
		}
		common.RespondSuccess(w, initTime, "Reaction "+string(res.Action), res)
	}
}

// ReactionsHandler handles GET /api/courses/{courseId}/reactions?targetType=&targetId=
func ReactionsHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())
		q := r.URL.Query()

		summary, err := contentSvc.Reactions(r.Context(), claims, chi.URLParam(r, "courseId"),
			constants.TargetKind(q.Get("targetType")), q.Get("targetId"))
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to fetch reactions")
			return
		}
		common.RespondSuccess(w, initTime, "Reactions fetched successfully", summary)
	}
}

// SetCompletionHandler handles PUT /api/courses/{courseId}/posts/{postId}/completion
func SetCompletionHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.AssignmentCompletionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		status, err := contentSvc.SetAssignmentCompletion(r.Context(), claims, chi.URLParam(r, "courseId"), chi.URLParam(r, "postId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update assignment status")
			return
		}
		common.RespondSuccess(w, initTime, "Assignment status updated", status)
	}
}

// MyAssignmentStatusesHandler handles GET /api/courses/{courseId}/assignments/status
func MyAssignmentStatusesHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		statuses, err := contentSvc.MyAssignmentStatuses(r.Context(), claims, chi.URLParam(r, "courseId"))
		respondList(w, r, initTime, statuses, err, "Assignment statuses")
	}
}

// CourseLeaderboardHandler handles GET /api/courses/{courseId}/leaderboard
func CourseLeaderboardHandler(contentSvc *services.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit := common.QueryInt(r, "limit", constants.DefaultLeaderboardLimit)
		entries, err := contentSvc.CourseLeaderboard(r.Context(), chi.URLParam(r, "courseId"), limit)
		respondList(w, r, initTime, entries, err, "Leaderboard")
	}
}
