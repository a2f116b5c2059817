package services

import (
	"context"
	"fmt"
	"strings"

	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/datatypes"
)

type BadgeService struct {
	badges *repositories.BadgeRepository
	users  *repositories.UserRepository
}

func NewBadgeService(badges *repositories.BadgeRepository, users *repositories.UserRepository) *BadgeService {
	return &BadgeService{badges: badges, users: users}
}

func (s *BadgeService) ListForUser(ctx context.Context, userID string) ([]gormModels.UserBadge, error) {
	return s.badges.ListForUser(ctx, userID)
}

// Award grants a named badge to an existing user.
func (s *BadgeService) Award(ctx context.Context, userID string, req dtos.AwardBadgeRequest) (*gormModels.UserBadge, error) {
	badgeType := strings.TrimSpace(req.BadgeType)
	if badgeType == "" {
		return nil, fmt.Errorf("%w: badge type is required", ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	badge := &gormModels.UserBadge{
		UserID:    userID,
		BadgeType: badgeType,
		CourseID:  req.CourseID,
	}
	if len(req.BadgeData) > 0 {
		badge.BadgeData = datatypes.JSON(req.BadgeData)
	}
	if err := s.badges.Create(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}
