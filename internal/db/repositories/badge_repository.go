package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) Create(ctx context.Context, b *gormModels.UserBadge) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}
	return nil
}

func (r *BadgeRepository) ListForUser(ctx context.Context, userID string) ([]gormModels.UserBadge, error) {
	var badges []gormModels.UserBadge

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	return badges, nil
}
