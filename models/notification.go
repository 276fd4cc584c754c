package models

import "time"

// Notification type
const (
	NotificationTypeInfo    = "info"
	NotificationTypeWarning = "warning"
	NotificationTypeSuccess = "success"
	NotificationTypeTeam    = "team"
	NotificationTypeSystem  = "system"
)

// Audience selectors. "custom" scopes the notification to one institute code
// (plus any explicitly listed recipients).
const (
	AudienceAll      = "all"
	AudienceAdmins   = "admins"
	AudienceSpocs    = "spocs"
	AudienceStudents = "students"
	AudienceMentors  = "mentors"
	AudienceJudges   = "judges"
	AudienceCustom   = "custom"
)

// AudienceForRole maps an account role to its role-class audience selector.
func AudienceForRole(role string) string {
	switch role {
	case RoleAdmin:
		return AudienceAdmins
	case RoleSpoc:
		return AudienceSpocs
	case RoleStudent:
		return AudienceStudents
	case RoleMentor:
		return AudienceMentors
	case RoleJudge:
		return AudienceJudges
	}
	return ""
}

// Notification is fan-out-free: visibility is resolved at query time from the
// audience selector, the explicit recipient list and the institute tag.
type Notification struct {
	NotificationID uint   `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	Title          string `gorm:"column:title" json:"title"`
	Message        string `gorm:"column:message" json:"message"`
	Type           string `gorm:"column:type" json:"type"`

	Audience      string   `gorm:"column:audience;index" json:"audience"`
	RecipientIDs  UintList `gorm:"column:recipient_ids;type:json;serializer:json" json:"recipient_ids,omitempty"`
	InstituteCode string   `gorm:"column:institute_code" json:"institute_code,omitempty"`

	CreatedBy             *uint `gorm:"column:created_by" json:"created_by,omitempty"`
	RelatedTeamID         *uint `gorm:"column:related_team_id" json:"related_team_id,omitempty"`
	RelatedSubmissionID   *uint `gorm:"column:related_submission_id" json:"related_submission_id,omitempty"`
	RelatedAnnouncementID *uint `gorm:"column:related_announcement_id" json:"related_announcement_id,omitempty"`

	IsActive bool      `gorm:"column:is_active" json:"is_active"`
	CreateAt time.Time `gorm:"column:create_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationRead records that a user has read a notification. The unique
// index gives the read-tracking set its set semantics; unread counts are
// derived, never stored.
type NotificationRead struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	NotificationID uint      `gorm:"column:notification_id;uniqueIndex:idx_notification_user" json:"notification_id"`
	UserID         uint      `gorm:"column:user_id;uniqueIndex:idx_notification_user" json:"user_id"`
	ReadAt         time.Time `gorm:"column:read_at" json:"read_at"`
}

func (NotificationRead) TableName() string { return "notification_reads" }
