package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"
	"hackathon-management-api/services"

	"github.com/gin-gonic/gin"
)

type SubmissionRequest struct {
	Files   []models.SubmissionFile `json:"files"`
	RepoURL string                  `json:"repo_url"`
	Notes   string                  `json:"notes"`
}

// CreateSubmission records a new submission version for the caller's team.
// Leader only; the team must be approved and the window open.
func CreateSubmission(c *gin.Context) {
	handleSubmit(c, false)
}

// ResubmitSubmission appends a new version, copying forward anything the
// caller did not override.
func ResubmitSubmission(c *gin.Context) {
	handleSubmit(c, true)
}

func handleSubmit(c *gin.Context, resubmit bool) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getCurrentUserID(c)

	var user models.User
	if err := config.DB.First(&user, "user_id = ?", userID).Error; err != nil || user.TeamID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not part of a team yet"})
		return
	}

	var team models.Team
	if err := config.DB.First(&team, "team_id = ?", *user.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	if team.LeaderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team leader can submit"})
		return
	}

	input := services.SubmitInput{
		TeamID:      team.TeamID,
		SubmittedBy: userID,
		Files:       req.Files,
		RepoURL:     req.RepoURL,
		Notes:       req.Notes,
	}

	var sub *models.Submission
	var err error
	if resubmit {
		sub, err = submissionService().Resubmit(input)
	} else {
		sub, err = submissionService().Create(input)
	}
	if err != nil {
		status, msg := submissionErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Submission saved", "submission": sub})
}

// GetTeamSubmissions returns a team's version history, newest first.
func GetTeamSubmissions(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil || teamID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team id"})
		return
	}

	// Students can only look at their own team's history.
	if getCurrentRole(c) == models.RoleStudent {
		userID, _ := getCurrentUserID(c)
		var user models.User
		if err := config.DB.First(&user, "user_id = ?", userID).Error; err != nil ||
			user.TeamID == nil || *user.TeamID != uint(teamID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own team's submissions"})
			return
		}
	}

	subs, err := submissionService().ListForTeam(uint(teamID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// GetAllSubmissions lists every live submission version (admin/judge view).
func GetAllSubmissions(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var subs []models.Submission
	if err := query.Order("create_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// LockSubmission freezes a version (admin only); optionally marks it final.
func LockSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	type LockRequest struct {
		IsFinal bool `json:"is_final"`
	}
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := submissionService().Lock(uint(submissionID), req.IsFinal)
	if err != nil {
		status, msg := submissionErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission locked", "submission": sub})
}

// ScoreSubmission sets a judge's score/feedback on one version and notifies
// the team. Judges may only score teams assigned to them.
func ScoreSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	type ScoreRequest struct {
		Score    *int   `json:"score"`
		Feedback string `json:"feedback"`
	}
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score == nil && req.Feedback == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a score or feedback"})
		return
	}

	userID, _ := getCurrentUserID(c)
	if getCurrentRole(c) == models.RoleJudge {
		var sub models.Submission
		if err := config.DB.First(&sub, "submission_id = ? AND delete_at IS NULL", submissionID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		var judge models.User
		if err := config.DB.First(&judge, "user_id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		assigned := false
		for _, id := range judge.AssignedTeamIDs {
			if id == sub.TeamID {
				assigned = true
				break
			}
		}
		if !assigned {
			c.JSON(http.StatusForbidden, gin.H{"error": "This team is not assigned to you"})
			return
		}
	}

	sub, err := submissionService().Score(uint(submissionID), req.Score, req.Feedback, userID)
	if err != nil {
		status, msg := submissionErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission scored", "submission": sub})
}

// DeleteSubmission soft-deletes a version (admin only).
func DeleteSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	if err := submissionService().SoftDelete(uint(submissionID)); err != nil {
		status, msg := submissionErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}

// GetSubmissionSettings returns the global submission window.
func GetSubmissionSettings(c *gin.Context) {
	settings, err := models.GetSubmissionSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"settings": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSubmissionSettings upserts the singleton submission window (admin).
func UpdateSubmissionSettings(c *gin.Context) {
	type SettingsRequest struct {
		Deadline *time.Time `json:"deadline"`
		IsActive bool       `json:"is_active"`
	}
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := submissionService().UpdateSettings(req.Deadline, req.IsActive)
	if err != nil {
		log.Printf("submission settings update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated", "settings": settings})
}

func submissionErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrSubmissionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrTeamNotApproved),
		errors.Is(err, services.ErrDeadlinePassed),
		errors.Is(err, services.ErrSubmissionLocked),
		errors.Is(err, services.ErrNotLatestVersion),
		errors.Is(err, services.ErrNotesTooLong),
		errors.Is(err, services.ErrInvalidScore):
		return http.StatusBadRequest, err.Error()
	default:
		log.Printf("submission operation failed: %v", err)
		return http.StatusInternalServerError, "Something went wrong"
	}
}
