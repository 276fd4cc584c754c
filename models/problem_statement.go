package models

import "time"

// ProblemStatement is a challenge teams can pick during registration or later
// via the team dashboard.
type ProblemStatement struct {
	ProblemStatementID uint       `gorm:"primaryKey;column:problem_statement_id" json:"problem_statement_id"`
	Title              string     `gorm:"column:title" json:"title"`
	Description        string     `gorm:"column:description" json:"description"`
	Category           string     `gorm:"column:category" json:"category"`
	IsActive           bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt           time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (ProblemStatement) TableName() string {
	return "problem_statements"
}
