package models

import (
	"time"

	"gorm.io/gorm"
)

// SubmissionSettings is a singleton row holding the global submission window.
type SubmissionSettings struct {
	SettingsID uint       `gorm:"primaryKey;column:settings_id" json:"settings_id"`
	Deadline   *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (SubmissionSettings) TableName() string {
	return "submission_settings"
}

// GetSubmissionSettings fetches the singleton settings row. A missing row is
// not an error; callers treat it as "no window configured".
func GetSubmissionSettings(db *gorm.DB) (*SubmissionSettings, error) {
	var settings SubmissionSettings
	if err := db.Order("settings_id ASC").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
