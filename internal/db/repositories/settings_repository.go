package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository stores platform-wide key/value settings
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (*gormModels.PlatformSetting, error) {
	var setting gormModels.PlatformSetting

	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch setting: %w", err)
	}
	return &setting, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, key string, value datatypes.JSON, updatedBy string) (*gormModels.PlatformSetting, error) {
	setting := gormModels.PlatformSetting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	return r.Get(ctx, key)
}

func (r *SettingsRepository) List(ctx context.Context) ([]gormModels.PlatformSetting, error) {
	var settings []gormModels.PlatformSetting

	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}
