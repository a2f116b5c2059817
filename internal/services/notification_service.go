package services

import (
	"context"
	"errors"

	"infinite-experiment/coursehub/internal/db/repositories"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
)

const maxNotificationPage = 100

type NotificationService struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationService(notifications *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the newest notifications of a user together with the unread count.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]gormModels.Notification, int64, error) {
	if limit <= 0 || limit > maxNotificationPage {
		limit = maxNotificationPage
	}
	items, err := s.notifications.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return mapNotFound(s.notifications.MarkRead(ctx, userID, id))
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	return mapNotFound(s.notifications.Delete(ctx, userID, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
