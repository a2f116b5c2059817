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

// ListSettingsHandler handles GET /api/settings
func ListSettingsHandler(settingsSvc *services.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		settings, err := settingsSvc.List(r.Context())
		respondList(w, r, initTime, settings, err, "Settings")
	}
}

// GetSettingHandler handles GET /api/settings/{key}
func GetSettingHandler(settingsSvc *services.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		setting, err := settingsSvc.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to fetch setting")
			return
		}
		common.RespondSuccess(w, initTime, "Setting fetched successfully", setting)
	}
}

// UpsertSettingHandler handles PUT /api/settings/{key}
//
// @Summary      Write platform setting
// @Description  Known keys are type checked; any other key takes any JSON value
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        key    path  string                     true  "Setting key"
// @Param        input  body  dtos.UpsertSettingRequest  true  "Value"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/settings/{key} [put]
func UpsertSettingHandler(settingsSvc *services.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.UpsertSettingRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		setting, err := settingsSvc.Upsert(r.Context(), chi.URLParam(r, "key"), req.Value, claims.UserID())
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to save setting")
			return
		}
		common.RespondSuccess(w, initTime, "Setting saved", setting)
	}
}
