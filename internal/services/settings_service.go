package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vitacross/vitacross-api/internal/i18n"
	"github.com/vitacross/vitacross-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSettingNotFound     = errors.New("setting not found")
	ErrInvalidSettingValue = errors.New("value does not match the setting type")
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// All returns every setting decoded according to its type.
func (s *SettingsService) All() (map[string]interface{}, error) {
	var settings []models.SiteSetting
	if err := s.db.Order("key").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	result := make(map[string]interface{}, len(settings))
	for _, st := range settings {
		result[st.Key] = decodeSetting(st.Key, st.Type, st.Value)
	}
	return result, nil
}

// Upsert creates or replaces a setting.
func (s *SettingsService) Upsert(key, value, typ string) (*models.SiteSetting, error) {
	if typ == "" {
		typ = "string"
	}
	if err := checkSetting(typ, value); err != nil {
		return nil, err
	}

	var setting models.SiteSetting
	err := s.db.Where("key = ?", key).First(&setting).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = models.SiteSetting{Key: key, Value: value, Type: typ}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, fmt.Errorf("failed to create setting: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query setting: %w", err)
	default:
		setting.Value = value
		setting.Type = typ
		if err := s.db.Save(&setting).Error; err != nil {
			return nil, fmt.Errorf("failed to update setting: %w", err)
		}
	}
	return &setting, nil
}

func (s *SettingsService) Delete(key string) error {
	result := s.db.Where("key = ?", key).Delete(&models.SiteSetting{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete setting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}

// SeedDefaults inserts the default settings that are missing. Existing values
// are left alone.
func (s *SettingsService) SeedDefaults() error {
	defaults := []models.SiteSetting{
		{Key: "default_language", Value: i18n.English, Type: "string"},
		{Key: "supported_languages", Value: `["en","zh"]`, Type: "json"},
		{Key: "currency", Value: "USD", Type: "string"},
		{Key: "subscription_popup_message", Value: i18n.T(i18n.English, i18n.MsgPopup), Type: "string"},
		{Key: "subscription_popup_message_zh", Value: i18n.T(i18n.Chinese, i18n.MsgPopup), Type: "string"},
		{Key: "subscription_popup_enabled", Value: "true", Type: "bool"},
		{Key: "maintenance_mode", Value: "false", Type: "bool"},
	}

	for _, d := range defaults {
		var count int64
		if err := s.db.Model(&models.SiteSetting{}).Where("key = ?", d.Key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		setting := d
		if err := s.db.Create(&setting).Error; err != nil {
			return err
		}
	}
	return nil
}

func checkSetting(typ, value string) error {
	switch typ {
	case "string":
		return nil
	case "bool":
		if _, err := strconv.ParseBool(value); err != nil {
			return ErrInvalidSettingValue
		}
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return ErrInvalidSettingValue
		}
	case "json":
		if !json.Valid([]byte(value)) {
			return ErrInvalidSettingValue
		}
	default:
		return ErrInvalidSettingValue
	}
	return nil
}

// decodeSetting falls back to the raw string when a stored value does not
// parse as its declared type.
func decodeSetting(key, typ, raw string) interface{} {
	var (
		value interface{}
		err   error
	)
	switch typ {
	case "bool":
		value, err = strconv.ParseBool(raw)
	case "int":
		value, err = strconv.Atoi(raw)
	case "json":
		err = json.Unmarshal([]byte(raw), &value)
	default:
		return raw
	}
	if err != nil {
		slog.Warn("stored setting does not match its type", "key", key, "type", typ, "error", err)
		return raw
	}
	return value
}
