package repositories

import (
	"context"
	"fmt"

	"infinite-experiment/coursehub/internal/constants"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/gorm"
)

// RoleRepository manages platform role grants
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *gormModels.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetUserRoles(ctx context.Context, userID string) ([]gormModels.Role, error) {
	var roles []gormModels.Role

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user roles: %w", err)
	}
	return roles, nil
}

// HasRole reports whether the user holds kind, optionally limited to scope.
func (r *RoleRepository) HasRole(ctx context.Context, userID string, kind constants.RoleKind, scope *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&gormModels.Role{}).
		Where("user_id = ? AND role_type = ?", userID, kind)
	if scope != nil {
		q = q.Where("scope = ?", *scope)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return count > 0, nil
}

func (r *RoleRepository) Delete(ctx context.Context, roleID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", roleID).Delete(&gormModels.Role{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
