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

// ListPinnedHandler handles GET /api/pinned
func ListPinnedHandler(pinnedSvc *services.PinnedPostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		posts, err := pinnedSvc.List(r.Context())
		respondList(w, r, initTime, posts, err, "Pinned posts")
	}
}

// CreatePinnedHandler handles POST /api/pinned
func CreatePinnedHandler(pinnedSvc *services.PinnedPostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.PinnedPostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		post, err := pinnedSvc.Create(r.Context(), claims.UserID(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to create pinned post")
			return
		}
		common.RespondSuccess(w, initTime, "Pinned post created", post, http.StatusCreated)
	}
}

// UpdatePinnedHandler handles PATCH /api/pinned/{id}
func UpdatePinnedHandler(pinnedSvc *services.PinnedPostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.PinnedPostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		post, err := pinnedSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update pinned post")
			return
		}
		common.RespondSuccess(w, initTime, "Pinned post updated", post)
	}
}

// DeletePinnedHandler handles DELETE /api/pinned/{id}
func DeletePinnedHandler(pinnedSvc *services.PinnedPostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := pinnedSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to delete pinned post")
			return
		}
		common.RespondSuccess(w, initTime, "Pinned post deleted", nil)
	}
}
