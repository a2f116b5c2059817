package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"infinite-experiment/coursehub/internal/db/repositories"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"

	"gorm.io/datatypes"
)

type settingKind int

const (
	settingBool settingKind = iota
	settingNumber
	settingString
)

// knownSettings are validated on write. Any other key accepts any JSON value.
var knownSettings = map[string]settingKind{
	"anonymous_hub_enabled": settingBool,
	"max_upload_mb":         settingNumber,
	"maintenance_message":   settingString,
}

type SettingsService struct {
	settings *repositories.SettingsRepository
}

func NewSettingsService(settings *repositories.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) Get(ctx context.Context, key string) (*gormModels.PlatformSetting, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrNotFound
	}
	return setting, nil
}

func (s *SettingsService) List(ctx context.Context) ([]gormModels.PlatformSetting, error) {
	return s.settings.List(ctx)
}

func (s *SettingsService) Upsert(ctx context.Context, key string, value json.RawMessage, updatedBy string) (*gormModels.PlatformSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: setting key is required", ErrInvalidInput)
	}
	if err := validateSetting(key, value); err != nil {
		return nil, err
	}
	return s.settings.Upsert(ctx, key, datatypes.JSON(value), updatedBy)
}

func validateSetting(key string, value json.RawMessage) error {
	if len(value) == 0 || !json.Valid(value) {
		return fmt.Errorf("%w: setting value must be valid JSON", ErrInvalidInput)
	}

	kind, known := knownSettings[key]
	if !known {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(value, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ok := false
	switch kind {
	case settingBool:
		_, ok = decoded.(bool)
	case settingNumber:
		var n float64
		n, ok = decoded.(float64)
		ok = ok && n >= 0
	case settingString:
		_, ok = decoded.(string)
	}
	if !ok {
		return fmt.Errorf("%w: unexpected value type for %s", ErrInvalidInput, key)
	}
	return nil
}
