package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type openConnectionCounter interface {
	OpenConnections() int
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the registry database and reports open course databases.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Failure 503 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(db *sqlx.DB, courses openConnectionCounter, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		// Check registry
		status := "ok"
		details := "Registry connected"
		if err := db.PingContext(r.Context()); err != nil {
			status = "down"
			details = err.Error()
		}
		services["registry"] = entities.ServiceStatus{
			Status:  status,
			Details: details,
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services:            services,
			Status:              overallStatus,
			OpenCourseDatabases: courses.OpenConnections(),
			UpSince:             upSince,
			Uptime:              time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.WriteJSON(w, code, resp)
	}
}
