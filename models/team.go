package models

import (
	"fmt"
	"math"
	"time"
)

// Team status
const (
	TeamStatusPending  = "pending"
	TeamStatusApproved = "approved"
	TeamStatusRejected = "rejected"
)

// Project phases, in milestone order.
const (
	PhaseIdeation    = "ideation"
	PhasePrototype   = "prototype"
	PhaseDevelopment = "development"
	PhaseFinal       = "final"
)

// Per-phase status
const (
	PhaseStatusPending         = "pending"
	PhaseStatusApproved        = "approved"
	PhaseStatusChangesRequired = "changes-required"
)

var phaseCount = len([]string{PhaseIdeation, PhasePrototype, PhaseDevelopment, PhaseFinal})

// Team is the durable, approved team entity. Teams are created only by the
// governance approval workflow, never by direct user action.
type Team struct {
	TeamID   uint   `gorm:"primaryKey;column:team_id" json:"team_id"`
	TeamName string `gorm:"column:team_name;uniqueIndex" json:"team_name"`

	LeaderID  uint     `gorm:"column:leader_id" json:"leader_id"`
	MemberIDs UintList `gorm:"column:member_ids;type:json;serializer:json" json:"member_ids"`

	InstituteCode string `gorm:"column:institute_code;index" json:"institute_code"`
	InstituteName string `gorm:"column:institute_name" json:"institute_name"`

	SpocID      *uint  `gorm:"column:spoc_id" json:"spoc_id,omitempty"`
	SpocName    string `gorm:"column:spoc_name" json:"spoc_name"`
	SpocEmail   string `gorm:"column:spoc_email" json:"spoc_email"`
	MentorID    *uint  `gorm:"column:mentor_id" json:"mentor_id,omitempty"`
	MentorName  string `gorm:"column:mentor_name" json:"mentor_name"`
	MentorEmail string `gorm:"column:mentor_email" json:"mentor_email"`

	ProblemStatementID *uint  `gorm:"column:problem_statement_id" json:"problem_statement_id,omitempty"`
	Status             string `gorm:"column:status;index" json:"status"`

	PhaseIdeationStatus    string `gorm:"column:phase_ideation;default:pending" json:"phase_ideation"`
	PhasePrototypeStatus   string `gorm:"column:phase_prototype;default:pending" json:"phase_prototype"`
	PhaseDevelopmentStatus string `gorm:"column:phase_development;default:pending" json:"phase_development"`
	PhaseFinalStatus       string `gorm:"column:phase_final;default:pending" json:"phase_final"`

	// Progress is always derived from the phase statuses, never set directly.
	Progress int `gorm:"column:progress" json:"progress"`

	ConsentRef         string        `gorm:"column:consent_ref" json:"consent_ref"`
	UnconfirmedMembers MemberRefList `gorm:"column:unconfirmed_members;type:json;serializer:json" json:"unconfirmed_members,omitempty"`
	RejectionReason    string        `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	ApprovedBy *uint      `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// PhaseStatuses returns the phase -> status map in milestone order keys.
func (t *Team) PhaseStatuses() map[string]string {
	return map[string]string{
		PhaseIdeation:    t.PhaseIdeationStatus,
		PhasePrototype:   t.PhasePrototypeStatus,
		PhaseDevelopment: t.PhaseDevelopmentStatus,
		PhaseFinal:       t.PhaseFinalStatus,
	}
}

// SetPhaseStatus updates one phase and recomputes progress.
func (t *Team) SetPhaseStatus(phase, status string) error {
	switch status {
	case PhaseStatusPending, PhaseStatusApproved, PhaseStatusChangesRequired:
	default:
		return fmt.Errorf("invalid phase status %q", status)
	}

	switch phase {
	case PhaseIdeation:
		t.PhaseIdeationStatus = status
	case PhasePrototype:
		t.PhasePrototypeStatus = status
	case PhaseDevelopment:
		t.PhaseDevelopmentStatus = status
	case PhaseFinal:
		t.PhaseFinalStatus = status
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}

	t.RecalcProgress()
	return nil
}

// RecalcProgress derives progress as round(approvedPhases / totalPhases * 100).
func (t *Team) RecalcProgress() {
	approved := 0
	for _, status := range t.PhaseStatuses() {
		if status == PhaseStatusApproved {
			approved++
		}
	}
	t.Progress = int(math.Round(float64(approved) / float64(phaseCount) * 100))
}
