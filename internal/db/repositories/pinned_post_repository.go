package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/gorm"
)

// PinnedPostRepository manages announcements pinned across every course
type PinnedPostRepository struct {
	db *gorm.DB
}

func NewPinnedPostRepository(db *gorm.DB) *PinnedPostRepository {
	return &PinnedPostRepository{db: db}
}

func (r *PinnedPostRepository) Create(ctx context.Context, p *gormModels.GlobalPinnedPost) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create pinned post: %w", err)
	}
	return nil
}

func (r *PinnedPostRepository) ListPinned(ctx context.Context) ([]gormModels.GlobalPinnedPost, error) {
	var posts []gormModels.GlobalPinnedPost

	err := r.db.WithContext(ctx).
		Where("is_pinned = ?", true).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pinned posts: %w", err)
	}
	return posts, nil
}

func (r *PinnedPostRepository) GetByID(ctx context.Context, id string) (*gormModels.GlobalPinnedPost, error) {
	var p gormModels.GlobalPinnedPost

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pinned post: %w", err)
	}
	return &p, nil
}

func (r *PinnedPostRepository) Update(ctx context.Context, p *gormModels.GlobalPinnedPost) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to update pinned post: %w", err)
	}
	return nil
}

func (r *PinnedPostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.GlobalPinnedPost{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete pinned post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
