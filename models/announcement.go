package models

import "time"

// Announcement is an admin-posted notice. Publishing one also creates a
// notification for the selected audience.
type Announcement struct {
	AnnouncementID uint       `gorm:"primaryKey;column:announcement_id" json:"announcement_id"`
	Title          string     `gorm:"column:title" json:"title"`
	Body           string     `gorm:"column:body" json:"body"`
	Audience       string     `gorm:"column:audience" json:"audience"`
	CreatedBy      uint       `gorm:"column:created_by" json:"created_by"`
	IsActive       bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}
