package models

import "time"

// Institute is the canonical code -> name directory. The code is the stable
// identity; the display name may be corrected over time via upsert.
type Institute struct {
	InstituteID uint       `gorm:"primaryKey;column:institute_id" json:"institute_id"`
	Code        string     `gorm:"column:code;uniqueIndex" json:"code"`
	Name        string     `gorm:"column:name" json:"name"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (Institute) TableName() string {
	return "institutes"
}
