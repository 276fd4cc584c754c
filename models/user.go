package models

import (
	"strings"
	"time"
)

// Account roles
const (
	RoleAdmin   = "admin"
	RoleSpoc    = "spoc"
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleJudge   = "judge"
)

// StringList is stored as a JSON array column.
type StringList []string

// UintList is stored as a JSON array column.
type UintList []uint

type User struct {
	UserID        uint   `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name          string `gorm:"column:name" json:"name"`
	Email         string `gorm:"column:email;uniqueIndex" json:"email"`
	Password      string `gorm:"column:password" json:"-"`
	Role          string `gorm:"column:role;index" json:"role"`
	InstituteCode string `gorm:"column:institute_code;index" json:"institute_code"`
	InstituteName string `gorm:"column:institute_name" json:"institute_name"`

	// GovernedRoleKey backs the one-SPOC/one-mentor-per-institute invariant at
	// the store level. It is "<role>:<code>" for spoc/mentor accounts and NULL
	// for every other role, so the unique index only bites where it should.
	GovernedRoleKey *string `gorm:"column:governed_role_key;uniqueIndex" json:"-"`

	District *string `gorm:"column:district" json:"district,omitempty"` // spoc
	State    *string `gorm:"column:state" json:"state,omitempty"`       // spoc

	TeamID          *uint      `gorm:"column:team_id" json:"team_id,omitempty"`
	AssignedTeamIDs UintList   `gorm:"column:assigned_team_ids;type:json;serializer:json" json:"assigned_team_ids,omitempty"` // judges
	Expertise       StringList `gorm:"column:expertise;type:json;serializer:json" json:"expertise,omitempty"`                 // mentors
	Phone           *string    `gorm:"column:phone" json:"phone,omitempty"`                                                   // judges

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// GovernedKey returns the uniqueness key for roles capped at one account per
// institute, or nil for roles that are not governed.
func GovernedKey(role, instituteCode string) *string {
	if role != RoleSpoc && role != RoleMentor {
		return nil
	}
	key := role + ":" + strings.ToUpper(strings.TrimSpace(instituteCode))
	return &key
}
