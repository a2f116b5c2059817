package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/dtos"
	"infinite-experiment/coursehub/internal/services"
)

// MeHandler handles GET /api/auth/me
//
// @Summary      Current user
// @Description  Returns the authenticated user's profile with effective roles
// @Tags         Auth
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer token"
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Router       /api/auth/me [get]
func MeHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, constants.MsgAuthRequired, http.StatusUnauthorized)
			return
		}

		me, err := userSvc.GetMe(r.Context(), claims)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to fetch user details")
			return
		}
		common.RespondSuccess(w, initTime, "User details fetched successfully", me)
	}
}

// UpdateProfileHandler handles PATCH /api/auth/profile
//
// @Summary      Update profile
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.UpdateProfileRequest  true  "Profile fields"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/auth/profile [patch]
func UpdateProfileHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.UpdateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		user, err := userSvc.UpdateProfile(r.Context(), claims.UserID(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update profile")
			return
		}
		common.RespondSuccess(w, initTime, "Profile updated", user)
	}
}

// MyBadgesHandler handles GET /api/badges/me
func MyBadgesHandler(badgeSvc *services.BadgeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		badges, err := badgeSvc.ListForUser(r.Context(), claims.UserID())
		respondList(w, r, initTime, badges, err, "Badges")
	}
}
