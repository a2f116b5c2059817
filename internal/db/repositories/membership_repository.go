package repositories

import (
	"context"
	"errors"
	"fmt"

	"infinite-experiment/coursehub/internal/constants"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/gorm"
)

// MembershipRepository manages course enrolments
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m *gormModels.CourseMembership) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

func (r *MembershipRepository) Get(ctx context.Context, userID, courseID string) (*gormModels.CourseMembership, error) {
	var m gormModels.CourseMembership

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch membership: %w", err)
	}
	return &m, nil
}

// GetActiveByUser returns the user's active memberships in active courses,
// oldest enrolment first, with the course preloaded.
func (r *MembershipRepository) GetActiveByUser(ctx context.Context, userID string) ([]gormModels.CourseMembership, error) {
	var memberships []gormModels.CourseMembership

	err := r.db.WithContext(ctx).
		Preload("Course").
		Joins("JOIN courses ON courses.id = course_memberships.course_id").
		Where("course_memberships.user_id = ? AND course_memberships.status = ? AND courses.is_active = ?",
			userID, constants.MembershipActive, true).
		Order("course_memberships.joined_at ASC").
		Order("course_memberships.id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user memberships: %w", err)
	}
	return memberships, nil
}

// GetActiveByUsers is GetActiveByUser for many users in one query, keyed by user.
func (r *MembershipRepository) GetActiveByUsers(ctx context.Context, userIDs []string) (map[string][]gormModels.CourseMembership, error) {
	out := make(map[string][]gormModels.CourseMembership, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var memberships []gormModels.CourseMembership
	err := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = course_memberships.course_id").
		Where("course_memberships.user_id IN ? AND course_memberships.status = ? AND courses.is_active = ?",
			userIDs, constants.MembershipActive, true).
		Order("course_memberships.joined_at ASC").
		Order("course_memberships.id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}

	for _, m := range memberships {
		out[m.UserID] = append(out[m.UserID], m)
	}
	return out, nil
}

func (r *MembershipRepository) GetByCourse(ctx context.Context, courseID string) ([]gormModels.CourseMembership, error) {
	var memberships []gormModels.CourseMembership

	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("joined_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course members: %w", err)
	}
	return memberships, nil
}

func (r *MembershipRepository) Update(ctx context.Context, m *gormModels.CourseMembership) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.CourseMembership{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{"role": m.Role, "status": m.Status}).Error
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, userID, courseID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&gormModels.CourseMembership{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete membership: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
