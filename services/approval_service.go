package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hackathon-management-api/models"
	"hackathon-management-api/utils"

	"gorm.io/gorm"
)

var ErrRegistrationNotFound = errors.New("pending registration not found")

// ApprovalCredentials carries freshly generated SPOC/mentor passwords back to
// the approving admin. Empty fields mean the existing account was reused.
type ApprovalCredentials struct {
	Spoc   string `json:"spoc,omitempty"`
	Mentor string `json:"mentor,omitempty"`
}

// ApprovalResult is the outcome of an approval: the materialized team, any
// generated credentials, and warnings from best-effort side effects that
// failed without aborting the approval.
type ApprovalResult struct {
	Team        *models.Team        `json:"team"`
	Credentials ApprovalCredentials `json:"credentials"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// PendingLeader is the nested leader shape the admin UI expects.
type PendingLeader struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PendingRegistrationView reshapes a staging record for display.
type PendingRegistrationView struct {
	RegistrationID     uint                 `json:"registration_id"`
	TeamName           string               `json:"team_name"`
	InstituteCode      string               `json:"institute_code"`
	InstituteName      string               `json:"institute_name"`
	Leader             PendingLeader        `json:"leader"`
	SpocName           string               `json:"spoc_name"`
	SpocEmail          string               `json:"spoc_email"`
	MentorName         string               `json:"mentor_name"`
	MentorEmail        string               `json:"mentor_email"`
	Members            models.MemberRefList `json:"members"`
	ProblemStatementID *uint                `json:"problem_statement_id,omitempty"`
	CreateAt           time.Time            `json:"create_at"`
}

// ApprovalService drives the governance workflow: it converts a staged
// registration into live accounts plus an approved team in one transaction,
// then fires notifications and best-effort emails.
type ApprovalService struct {
	db     *gorm.DB
	mailer EmailSender
}

func NewApprovalService(db *gorm.DB, mailer EmailSender) *ApprovalService {
	return &ApprovalService{db: db, mailer: mailer}
}

// ListPending returns staged registrations, newest first.
func (s *ApprovalService) ListPending() ([]PendingRegistrationView, error) {
	var regs []models.PendingRegistration
	if err := s.db.Where("status = ?", models.RegistrationStatusPending).
		Order("create_at DESC").Find(&regs).Error; err != nil {
		return nil, err
	}

	views := make([]PendingRegistrationView, 0, len(regs))
	for _, reg := range regs {
		views = append(views, PendingRegistrationView{
			RegistrationID:     reg.RegistrationID,
			TeamName:           reg.TeamName,
			InstituteCode:      reg.InstituteCode,
			InstituteName:      reg.InstituteName,
			Leader:             PendingLeader{Name: reg.LeaderName, Email: reg.LeaderEmail},
			SpocName:           reg.SpocName,
			SpocEmail:          reg.SpocEmail,
			MentorName:         reg.MentorName,
			MentorEmail:        reg.MentorEmail,
			Members:            reg.Members,
			ProblemStatementID: reg.ProblemStatementID,
			CreateAt:           reg.CreateAt,
		})
	}
	return views, nil
}

// Approve converts the staging record into live records. All data-store
// writes run in one transaction, so a mid-sequence failure (including a
// member email collision) leaves nothing behind. Emails and the leader
// notification's delivery are best effort and reported as warnings.
func (s *ApprovalService) Approve(registrationID, adminID uint) (*ApprovalResult, error) {
	var reg models.PendingRegistration
	if err := s.db.First(&reg, "registration_id = ?", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	code := utils.NormalizeInstituteCode(reg.InstituteCode)
	result := &ApprovalResult{}

	var (
		team          models.Team
		spocAccount   *models.User
		mentorAccount *models.User
		spocExisted   bool
		mentorExisted bool
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// At most one SPOC and one mentor exist per institute; reuse them.
		spoc, err := FindGovernedUser(tx, models.RoleSpoc, code)
		if err != nil {
			return err
		}
		mentor, err := FindGovernedUser(tx, models.RoleMentor, code)
		if err != nil {
			return err
		}
		spocExisted = spoc != nil
		mentorExisted = mentor != nil

		// The leader password was hashed once at registration time, so the
		// account goes through the pre-hashed entry point. No re-hash.
		if err := checkEmailFree(tx, reg.LeaderEmail); err != nil {
			return err
		}
		leader := &models.User{
			Name:          reg.LeaderName,
			Email:         strings.ToLower(strings.TrimSpace(reg.LeaderEmail)),
			Role:          models.RoleStudent,
			InstituteCode: code,
			InstituteName: reg.InstituteName,
		}
		if err := CreateUserWithPrehashedPassword(tx, leader, reg.LeaderPassword); err != nil {
			return fmt.Errorf("create leader account: %w", err)
		}

		if spoc == nil {
			created, password, err := CreateAccount(tx, CreateAccountInput{
				Name:          reg.SpocName,
				Email:         reg.SpocEmail,
				Role:          models.RoleSpoc,
				InstituteCode: code,
				InstituteName: reg.InstituteName,
				District:      optional(reg.SpocDistrict),
				State:         optional(reg.SpocState),
			})
			if err != nil {
				return fmt.Errorf("create SPOC account: %w", err)
			}
			spoc = created
			result.Credentials.Spoc = password
		} else {
			// Backfill district/state the existing account is missing.
			updates := map[string]interface{}{}
			if isBlank(spoc.District) && reg.SpocDistrict != "" {
				updates["district"] = reg.SpocDistrict
			}
			if isBlank(spoc.State) && reg.SpocState != "" {
				updates["state"] = reg.SpocState
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.User{}).
					Where("user_id = ?", spoc.UserID).Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		if mentor == nil {
			created, password, err := CreateAccount(tx, CreateAccountInput{
				Name:          reg.MentorName,
				Email:         reg.MentorEmail,
				Role:          models.RoleMentor,
				InstituteCode: code,
				InstituteName: reg.InstituteName,
			})
			if err != nil {
				return fmt.Errorf("create mentor account: %w", err)
			}
			mentor = created
			result.Credentials.Mentor = password
		}

		// Directory sync is not allowed to sink the approval.
		if _, err := UpsertInstitute(tx, code, reg.InstituteName); err != nil {
			log.Printf("institute upsert failed during approval of registration %d: %v", reg.RegistrationID, err)
			result.Warnings = append(result.Warnings, "institute directory sync failed: "+err.Error())
		}

		team = models.Team{
			TeamName:               reg.TeamName,
			LeaderID:               leader.UserID,
			InstituteCode:          code,
			InstituteName:          reg.InstituteName,
			SpocID:                 &spoc.UserID,
			SpocName:               spoc.Name,
			SpocEmail:              spoc.Email,
			MentorID:               &mentor.UserID,
			MentorName:             mentor.Name,
			MentorEmail:            mentor.Email,
			ProblemStatementID:     reg.ProblemStatementID,
			Status:                 models.TeamStatusApproved,
			PhaseIdeationStatus:    models.PhaseStatusPending,
			PhasePrototypeStatus:   models.PhaseStatusPending,
			PhaseDevelopmentStatus: models.PhaseStatusPending,
			PhaseFinalStatus:       models.PhaseStatusPending,
			ConsentRef:             reg.ConsentRef,
			UnconfirmedMembers:     reg.Members,
			ApprovedBy:             &adminID,
			ApprovedAt:             &now,
			CreateAt:               now,
		}
		if err := tx.Create(&team).Error; err != nil {
			return fmt.Errorf("create team: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("user_id = ?", leader.UserID).
			Update("team_id", team.TeamID).Error; err != nil {
			return err
		}

		// Materialize member accounts. An email collision here fails the
		// whole approval rather than leaving a partial roster.
		memberIDs := models.UintList{leader.UserID}
		for _, member := range reg.Members {
			if err := checkEmailFree(tx, member.Email); err != nil {
				return fmt.Errorf("member account %s: %w", member.Email, err)
			}
			password, err := utils.GenerateRandomPassword(12)
			if err != nil {
				return err
			}
			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}
			account := &models.User{
				Name:          member.Name,
				Email:         strings.ToLower(strings.TrimSpace(member.Email)),
				Role:          models.RoleStudent,
				InstituteCode: code,
				InstituteName: reg.InstituteName,
				TeamID:        &team.TeamID,
			}
			if err := CreateUserWithPrehashedPassword(tx, account, hash); err != nil {
				return fmt.Errorf("member account %s: %w", member.Email, err)
			}
			memberIDs = append(memberIDs, account.UserID)
		}

		if err := tx.Model(&models.Team{}).
			Where("team_id = ?", team.TeamID).
			Update("member_ids", memberIDs).Error; err != nil {
			return err
		}
		team.MemberIDs = memberIDs

		notification := models.Notification{
			Title:         "Team Approved",
			Message:       fmt.Sprintf("Congratulations! Your team %q has been approved.", reg.TeamName),
			Type:          models.NotificationTypeSuccess,
			Audience:      models.AudienceCustom,
			RecipientIDs:  models.UintList{leader.UserID},
			CreatedBy:     &adminID,
			RelatedTeamID: &team.TeamID,
			IsActive:      true,
			CreateAt:      now,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}

		// The staging record is consumed exactly once; after this the team
		// and user stores are the single source of truth.
		if err := tx.Delete(&models.PendingRegistration{}, "registration_id = ?", reg.RegistrationID).Error; err != nil {
			return err
		}

		spocAccount = spoc
		mentorAccount = mentor
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Team = &team

	// Emails are a side channel: log and report, never fail the approval.
	if err := s.mailer.SendWelcomeEmail(reg.LeaderEmail, reg.LeaderName, reg.TeamName); err != nil {
		log.Printf("welcome email to %s failed: %v", reg.LeaderEmail, err)
		result.Warnings = append(result.Warnings, "welcome email to leader failed")
	}
	if err := s.mailer.SendCredentialEmail(spocAccount.Email, spocAccount.Name,
		GovernedRoleLabel(models.RoleSpoc), result.Credentials.Spoc, spocExisted); err != nil {
		log.Printf("credential email to SPOC %s failed: %v", spocAccount.Email, err)
		result.Warnings = append(result.Warnings, "credential email to SPOC failed")
	}
	if err := s.mailer.SendCredentialEmail(mentorAccount.Email, mentorAccount.Name,
		GovernedRoleLabel(models.RoleMentor), result.Credentials.Mentor, mentorExisted); err != nil {
		log.Printf("credential email to mentor %s failed: %v", mentorAccount.Email, err)
		result.Warnings = append(result.Warnings, "credential email to mentor failed")
	}

	return result, nil
}

// Reject deletes the staging record. Nothing was provisioned while staged, so
// no compensating writes are needed. The registrant is told by best-effort
// email; the reason travels with it.
func (s *ApprovalService) Reject(registrationID uint, reason string) ([]string, error) {
	var reg models.PendingRegistration
	if err := s.db.First(&reg, "registration_id = ?", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	if err := s.db.Delete(&models.PendingRegistration{}, "registration_id = ?", reg.RegistrationID).Error; err != nil {
		return nil, err
	}

	var warnings []string
	if err := s.mailer.SendRejectionEmail(reg.LeaderEmail, reg.LeaderName, reg.TeamName, reason); err != nil {
		log.Printf("rejection email to %s failed: %v", reg.LeaderEmail, err)
		warnings = append(warnings, "rejection email to leader failed")
	}
	return warnings, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
