package models

import "time"

// Submission status
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusUpdated   = "updated"
	SubmissionStatusLocked    = "locked"
)

// MaxSubmissionNotesLen caps the free-text notes field.
const MaxSubmissionNotesLen = 2000

// SubmissionFile is one uploaded artifact link.
type SubmissionFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Provider string `json:"provider"`
}

// SubmissionFileList is stored as a JSON array column.
type SubmissionFileList []SubmissionFile

// Submission is one version of a team's project artifacts. History is
// append-only: resubmission creates a new row with version = max + 1 and the
// prior row is never mutated. A locked row freezes the whole team history.
type Submission struct {
	SubmissionID uint `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	TeamID       uint `gorm:"column:team_id;index" json:"team_id"`
	SubmittedBy  uint `gorm:"column:submitted_by" json:"submitted_by"`

	Files   SubmissionFileList `gorm:"column:files;type:json;serializer:json" json:"files"`
	RepoURL string             `gorm:"column:repo_url" json:"repo_url,omitempty"`
	Notes   string             `gorm:"column:notes;size:2000" json:"notes,omitempty"`

	Version int    `gorm:"column:version" json:"version"`
	Status  string `gorm:"column:status" json:"status"`
	IsFinal bool   `gorm:"column:is_final" json:"is_final"`

	Score    *int   `gorm:"column:score" json:"score,omitempty"` // 0-100
	Feedback string `gorm:"column:feedback" json:"feedback,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
