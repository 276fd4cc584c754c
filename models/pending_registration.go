package models

import "time"

// MemberRef is one additional team member on a staged registration.
type MemberRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MemberRefList is stored as a JSON array column.
type MemberRefList []MemberRef

// PendingRegistration is the staging record for a team registration. It lives
// only between public submission and the admin governance decision; approval
// converts it into live user/team records and deletes it, rejection deletes it
// outright. It is never updated in place.
type PendingRegistration struct {
	RegistrationID uint   `gorm:"primaryKey;column:registration_id" json:"registration_id"`
	TeamName       string `gorm:"column:team_name" json:"team_name"`
	InstituteCode  string `gorm:"column:institute_code;index" json:"institute_code"`
	InstituteName  string `gorm:"column:institute_name" json:"institute_name"`

	LeaderName  string `gorm:"column:leader_name" json:"leader_name"`
	LeaderEmail string `gorm:"column:leader_email" json:"leader_email"`
	// Already bcrypt-hashed at registration time; must never be hashed again.
	LeaderPassword string `gorm:"column:leader_password" json:"-"`

	SpocName     string `gorm:"column:spoc_name" json:"spoc_name"`
	SpocEmail    string `gorm:"column:spoc_email" json:"spoc_email"`
	SpocDistrict string `gorm:"column:spoc_district" json:"spoc_district"`
	SpocState    string `gorm:"column:spoc_state" json:"spoc_state"`

	MentorName  string `gorm:"column:mentor_name" json:"mentor_name"`
	MentorEmail string `gorm:"column:mentor_email" json:"mentor_email"`

	Members MemberRefList `gorm:"column:members;type:json;serializer:json" json:"members"`

	ConsentRef         string `gorm:"column:consent_ref" json:"consent_ref"`
	ProblemStatementID *uint  `gorm:"column:problem_statement_id" json:"problem_statement_id,omitempty"`

	Status   string    `gorm:"column:status" json:"status"` // always "pending" while staged
	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
}

func (PendingRegistration) TableName() string {
	return "pending_registrations"
}

const RegistrationStatusPending = "pending"
