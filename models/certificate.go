package models

import "time"

// Certificate kinds
const (
	CertificateParticipation = "participation"
	CertificateCompletion    = "completion"
)

// Certificate is issued per team member once the team's final phase is
// approved. The serial is the public verification handle.
type Certificate struct {
	CertificateID uint      `gorm:"primaryKey;column:certificate_id" json:"certificate_id"`
	TeamID        uint      `gorm:"column:team_id;uniqueIndex:idx_certificate_team_user" json:"team_id"`
	UserID        uint      `gorm:"column:user_id;uniqueIndex:idx_certificate_team_user" json:"user_id"`
	Kind          string    `gorm:"column:kind" json:"kind"`
	Serial        string    `gorm:"column:serial;uniqueIndex" json:"serial"`
	IssuedAt      time.Time `gorm:"column:issued_at" json:"issued_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}
