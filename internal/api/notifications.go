package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/services"

	"github.com/go-chi/chi/v5"
)

// ListNotificationsHandler handles GET /api/notifications
func ListNotificationsHandler(notificationSvc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		items, unread, err := notificationSvc.List(r.Context(), claims.UserID(), common.QueryInt(r, "limit", 0))
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to fetch notifications")
			return
		}
		common.RespondSuccess(w, initTime, "Notifications fetched successfully", map[string]interface{}{
			"items":  items,
			"unread": unread,
		})
	}
}

// MarkNotificationReadHandler handles POST /api/notifications/{id}/read
func MarkNotificationReadHandler(notificationSvc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		if err := notificationSvc.MarkRead(r.Context(), claims.UserID(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update notification")
			return
		}
		common.RespondSuccess(w, initTime, "Notification marked as read", nil)
	}
}

// DeleteNotificationHandler handles DELETE /api/notifications/{id}
func DeleteNotificationHandler(notificationSvc *services.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		if err := notificationSvc.Delete(r.Context(), claims.UserID(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to delete notification")
			return
		}
		common.RespondSuccess(w, initTime, "Notification deleted", nil)
	}
}
