package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/dtos"
	"infinite-experiment/coursehub/internal/services"

	"github.com/go-chi/chi/v5"
)

// ListUsersHandler handles GET /api/admin/users
func ListUsersHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		users, err := userSvc.ListUsers(r.Context())
		respondList(w, r, initTime, users, err, "Users")
	}
}

// SetBannedHandler handles POST /api/admin/users/{userId}/ban and /unban.
//
// @Summary      Ban or unban a user
// @Description  The creator cannot be banned
// @Tags         Admin
// @Produce      json
// @Param        userId  path  string  true  "User ID"
// @Success      200  {object}  dtos.APIResponse
// @Failure      403,404  {object}  dtos.APIResponse
// @Router       /api/admin/users/{userId}/ban [post]
func SetBannedHandler(userSvc *services.UserService, banned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID := chi.URLParam(r, "userId")

		if err := userSvc.SetBanned(r.Context(), userID, banned); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update user")
			return
		}
		common.RespondSuccess(w, initTime, "User updated", map[string]interface{}{
			"id":       userID,
			"isBanned": banned,
		})
	}
}

// UserRolesHandler handles GET /api/admin/users/{userId}/roles
func UserRolesHandler(roleSvc *services.RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		roles, err := roleSvc.GetUserRoles(r.Context(), chi.URLParam(r, "userId"))
		respondList(w, r, initTime, roles, err, "Roles")
	}
}

// AwardBadgeHandler handles POST /api/admin/users/{userId}/badges
func AwardBadgeHandler(badgeSvc *services.BadgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AwardBadgeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		badge, err := badgeSvc.Award(r.Context(), chi.URLParam(r, "userId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to award badge")
			return
		}
		common.RespondSuccess(w, initTime, "Badge awarded", badge, http.StatusCreated)
	}
}

// AssignRoleHandler handles POST /api/roles/assign
//
// @Summary      Assign role
// @Description  course_admin needs a course scope. The creator role is never assignable.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.AssignRoleRequest  true  "Role grant"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400,404  {object}  dtos.APIResponse
// @Router       /api/roles/assign [post]
func AssignRoleHandler(roleSvc *services.RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.AssignRoleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		role, err := roleSvc.Assign(r.Context(), claims.UserID(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to assign role")
			return
		}
		common.RespondSuccess(w, initTime, "Role assigned", role, http.StatusCreated)
	}
}

// RevokeRoleHandler handles DELETE /api/roles/{roleId}
func RevokeRoleHandler(roleSvc *services.RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := roleSvc.Revoke(r.Context(), chi.URLParam(r, "roleId")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to revoke role")
			return
		}
		common.RespondSuccess(w, initTime, "Role revoked", nil)
	}
}
