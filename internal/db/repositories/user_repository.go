package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/gorm"
)

// UserRepository manages registry users with GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns nil when the user does not exist
func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByIDs returns the users that exist among ids, keyed by id.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]gormModels.User, error) {
	out := make(map[string]gormModels.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []gormModels.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListAll returns every user in registration order.
func (r *UserRepository) ListAll(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Update("is_banned", banned)
	if res.Error != nil {
		return fmt.Errorf("failed to update ban status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
