package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/services"
)

// DashboardStatsHandler handles GET /api/dashboard/stats
//
// @Summary      Dashboard summary
// @Description  Totals across every enrolled course. Unreachable courses are left out of the assignment counts.
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/dashboard/stats [get]
func DashboardStatsHandler(aggregator *services.AggregatorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		stats, err := aggregator.DashboardStats(r.Context(), claims.UserID())
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to build dashboard")
			return
		}
		common.RespondSuccess(w, initTime, "Dashboard fetched successfully", stats)
	}
}

// DashboardAssignmentsHandler handles GET /api/dashboard/assignments
func DashboardAssignmentsHandler(aggregator *services.AggregatorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		assignments, err := aggregator.AllAssignments(r.Context(), claims.UserID())
		respondList(w, r, initTime, assignments, err, "Assignments")
	}
}

// GlobalLeaderboardHandler handles GET /api/leaderboard
func GlobalLeaderboardHandler(aggregator *services.AggregatorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		entries, err := aggregator.GlobalLeaderboard(r.Context())
		if err == nil {
			if limit := common.QueryInt(r, "limit", 0); limit > 0 && limit < len(entries) {
				entries = entries[:limit]
			}
		}
		respondList(w, r, initTime, entries, err, "Leaderboard")
	}
}
