package model

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Setting is a runtime key/value override. Persisted settings take
// precedence over config-file and environment defaults.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey;size:64"`
	Value string `json:"value" gorm:"type:text"`
}

const (
	SettingHumeAPIKey       = "hume_api_key"
	SettingForceMock        = "use_mock_emotions"
	SettingStreamingEnabled = "use_streaming_analysis"
)

// GetSetting returns the stored value, or "" when the key is absent.
func GetSetting(key string) (string, error) {
	var s Setting
	if err := DB.Where("`key` = ?", key).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return s.Value, nil
}

// GetBoolSetting resolves a boolean with persisted-over-default precedence.
func GetBoolSetting(key string, def bool) bool {
	value, err := GetSetting(key)
	if err != nil || value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func SetSetting(key, value string) error {
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&Setting{Key: key, Value: value}).Error
}
