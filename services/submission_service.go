package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hackathon-management-api/models"

	"gorm.io/gorm"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNotApproved    = errors.New("team is not approved yet")
	ErrDeadlinePassed     = errors.New("submission deadline has passed")
	ErrSubmissionLocked   = errors.New("submission is locked and can no longer be changed")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotLatestVersion   = errors.New("only the latest submission version can be locked")
	ErrNotesTooLong       = errors.New("notes must be at most 2000 characters")
	ErrInvalidScore       = errors.New("score must be between 0 and 100")
)

// SubmitInput is one submission payload. On resubmission, zero-valued fields
// are copied forward from the latest version.
type SubmitInput struct {
	TeamID      uint
	SubmittedBy uint
	Files       models.SubmissionFileList
	RepoURL     string
	Notes       string
}

// SubmissionService maintains the append-only, versioned submission history.
type SubmissionService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewSubmissionService(db *gorm.DB, notifications *NotificationService) *SubmissionService {
	return &SubmissionService{db: db, notifications: notifications}
}

// Create records a team's first-or-next submission version.
func (s *SubmissionService) Create(input SubmitInput) (*models.Submission, error) {
	return s.submit(input, false)
}

// Resubmit appends a new version, copying forward any field the caller did
// not override. The previous row is never mutated.
func (s *SubmissionService) Resubmit(input SubmitInput) (*models.Submission, error) {
	return s.submit(input, true)
}

func (s *SubmissionService) submit(input SubmitInput, copyForward bool) (*models.Submission, error) {
	if len(input.Notes) > models.MaxSubmissionNotesLen {
		return nil, ErrNotesTooLong
	}

	var created models.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "team_id = ?", input.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		latest, err := latestSubmission(tx, input.TeamID)
		if err != nil {
			return err
		}

		settings := readSettingsBestEffort(tx)
		if err := submissionGate(&team, settings, latest, time.Now()); err != nil {
			return err
		}

		created = models.Submission{
			TeamID:      input.TeamID,
			SubmittedBy: input.SubmittedBy,
			Files:       input.Files,
			RepoURL:     strings.TrimSpace(input.RepoURL),
			Notes:       input.Notes,
			Version:     nextVersion(latest),
			Status:      statusForVersion(latest),
			CreateAt:    time.Now(),
		}
		if copyForward && latest != nil {
			if len(created.Files) == 0 {
				created.Files = latest.Files
			}
			if created.RepoURL == "" {
				created.RepoURL = latest.RepoURL
			}
			if created.Notes == "" {
				created.Notes = latest.Notes
			}
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Lock freezes a submission version; there is no unlock. Optionally marks it
// as the team's final submission. Only the team's newest live version can be
// locked: the gate inspects the latest version, so locking an older row would
// leave the history open.
func (s *SubmissionService) Lock(submissionID uint, isFinal bool) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.First(&sub, "submission_id = ? AND delete_at IS NULL", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	var latest models.Submission
	if err := s.db.Where("team_id = ? AND delete_at IS NULL", sub.TeamID).
		Order("version DESC").First(&latest).Error; err != nil {
		return nil, err
	}
	if latest.SubmissionID != sub.SubmissionID {
		return nil, ErrNotLatestVersion
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    models.SubmissionStatusLocked,
		"is_final":  isFinal,
		"update_at": now,
	}
	if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	sub.Status = models.SubmissionStatusLocked
	sub.IsFinal = isFinal
	sub.UpdateAt = &now
	return &sub, nil
}

// Score sets the judge's score/feedback on one version and notifies the team.
func (s *SubmissionService) Score(submissionID uint, score *int, feedback string, scoredBy uint) (*models.Submission, error) {
	if score != nil && (*score < 0 || *score > 100) {
		return nil, ErrInvalidScore
	}

	var sub models.Submission
	if err := s.db.First(&sub, "submission_id = ? AND delete_at IS NULL", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if score != nil {
		updates["score"] = *score
	}
	if feedback != "" {
		updates["feedback"] = feedback
	}
	if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	if score != nil {
		sub.Score = score
	}
	if feedback != "" {
		sub.Feedback = feedback
	}
	sub.UpdateAt = &now

	s.notifyTeamScored(&sub, scoredBy)
	return &sub, nil
}

// UpdateSettings upserts the singleton submission window. Only a genuinely
// missing row takes the create path; any other read error aborts so a
// transient failure cannot spawn a second settings row.
func (s *SubmissionService) UpdateSettings(deadline *time.Time, isActive bool) (*models.SubmissionSettings, error) {
	now := time.Now()

	settings, err := models.GetSubmissionSettings(s.db)
	switch {
	case err == nil:
		settings.Deadline = deadline
		settings.IsActive = isActive
		settings.UpdateAt = &now
		if err := s.db.Save(settings).Error; err != nil {
			return nil, err
		}
		return settings, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := &models.SubmissionSettings{Deadline: deadline, IsActive: isActive, UpdateAt: &now}
		if err := s.db.Create(created).Error; err != nil {
			return nil, err
		}
		return created, nil
	default:
		return nil, err
	}
}

// SoftDelete hides a submission version from team-facing queries.
func (s *SubmissionService) SoftDelete(submissionID uint) error {
	result := s.db.Model(&models.Submission{}).
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		Update("delete_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// ListForTeam returns the team's versions, newest first, excluding
// soft-deleted rows.
func (s *SubmissionService) ListForTeam(teamID uint) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("team_id = ? AND delete_at IS NULL", teamID).
		Order("version DESC").Find(&subs).Error
	return subs, err
}

func (s *SubmissionService) notifyTeamScored(sub *models.Submission, scoredBy uint) {
	var team models.Team
	if err := s.db.First(&team, "team_id = ?", sub.TeamID).Error; err != nil {
		log.Printf("score notification skipped, team %d lookup failed: %v", sub.TeamID, err)
		return
	}

	recipients := models.UintList{team.LeaderID}
	for _, id := range team.MemberIDs {
		if id != team.LeaderID {
			recipients = append(recipients, id)
		}
	}

	n := models.Notification{
		Title:               "Submission Evaluated",
		Message:             fmt.Sprintf("Your submission (version %d) has received judge feedback.", sub.Version),
		Type:                models.NotificationTypeTeam,
		Audience:            models.AudienceCustom,
		RecipientIDs:        recipients,
		CreatedBy:           &scoredBy,
		RelatedTeamID:       &team.TeamID,
		RelatedSubmissionID: &sub.SubmissionID,
	}
	if err := s.notifications.Create(&n); err != nil {
		log.Printf("score notification for submission %d failed: %v", sub.SubmissionID, err)
	}
}

// latestSubmission returns the newest version row for a team, or nil when the
// team has no history yet. Soft-deleted rows still count for version numbering
// so numbers never repeat.
func latestSubmission(tx *gorm.DB, teamID uint) (*models.Submission, error) {
	var sub models.Submission
	err := tx.Where("team_id = ?", teamID).Order("version DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// readSettingsBestEffort loads the submission window; a failed read means "no
// window configured" rather than a blocked submission.
func readSettingsBestEffort(tx *gorm.DB) *models.SubmissionSettings {
	settings, err := models.GetSubmissionSettings(tx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("submission settings read failed: %v", err)
		}
		return nil
	}
	return settings
}

// submissionGate enforces the ordering of checks: approval, then lock, then
// deadline. A locked history rejects regardless of deadline state.
func submissionGate(team *models.Team, settings *models.SubmissionSettings, latest *models.Submission, now time.Time) error {
	if team.Status != models.TeamStatusApproved {
		return ErrTeamNotApproved
	}
	if latest != nil && latest.Status == models.SubmissionStatusLocked {
		return ErrSubmissionLocked
	}
	if settings != nil && settings.IsActive && settings.Deadline != nil && now.After(*settings.Deadline) {
		return ErrDeadlinePassed
	}
	return nil
}

// nextVersion implements the monotonic, gap-free version sequence per team.
func nextVersion(latest *models.Submission) int {
	if latest == nil {
		return 1
	}
	return latest.Version + 1
}

// statusForVersion: the first version is "submitted", every later one is
// "updated" until an admin locks the history.
func statusForVersion(latest *models.Submission) string {
	if latest == nil {
		return models.SubmissionStatusSubmitted
	}
	return models.SubmissionStatusUpdated
}
