package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/services"
	"infinite-experiment/coursehub/internal/tenancy"
)

const maxBodyBytes = 1 << 20

// statusFor maps service and tenancy errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tenancy.ErrTenantUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrBanned):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrCreatorNotAssignable),
		errors.Is(err, services.ErrCannotDemoteCreator):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError writes the error response for err. Server errors are
// logged and answered with fallback only.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error, fallback string) {
	code := statusFor(err)
	switch code {
	case http.StatusServiceUnavailable:
		logging.Warn("Course database unavailable", "path", r.URL.Path, "error", err.Error())
		fallback = constants.MsgTenantUnavailable
	case http.StatusInternalServerError:
		logging.Error(fallback, "path", r.URL.Path, "error", err.Error())
	}
	common.RespondError(w, initTime, err, fallback, code)
}

// respondList answers a list read. When the course database is unavailable
// the caller still gets 200 with an empty list.
func respondList[T any](w http.ResponseWriter, r *http.Request, initTime time.Time, items []T, err error, message string) {
	if err != nil {
		if !errors.Is(err, tenancy.ErrTenantUnavailable) {
			respondServiceError(w, r, initTime, err, "Failed to fetch "+message)
			return
		}
		logging.Warn("Serving empty list, course database unavailable", "path", r.URL.Path, "error", err.Error())
		items = nil
	}
	if items == nil {
		items = []T{}
	}
	common.RespondSuccess(w, initTime, message+" fetched successfully", items)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", services.ErrInvalidInput)
	}
	return nil
}
