package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetMyTeam returns the caller's team with the phase map spelled out.
func GetMyTeam(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var user models.User
	if err := config.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.TeamID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not part of a team yet"})
		return
	}

	var team models.Team
	if err := config.DB.First(&team, "team_id = ?", *user.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"team":   team,
		"phases": team.PhaseStatuses(),
	})
}

// GetTeams lists teams for the admin, optionally filtered by status or
// institute code.
func GetTeams(c *gin.Context) {
	query := config.DB.Model(&models.Team{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := c.Query("institute_code"); code != "" {
		query = query.Where("institute_code = ?", code)
	}

	var teams []models.Team
	if err := query.Order("create_at DESC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// GetInstituteTeams lists the approved teams of the caller's institute
// (SPOC and mentor view).
func GetInstituteTeams(c *gin.Context) {
	code := getCurrentInstitute(c)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No institute associated with this account"})
		return
	}

	var teams []models.Team
	if err := config.DB.Where("institute_code = ? AND status = ?", code, models.TeamStatusApproved).
		Order("create_at DESC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// SelectProblemStatement lets the team leader pick or change the team's
// problem statement.
func SelectProblemStatement(c *gin.Context) {
	type SelectRequest struct {
		ProblemStatementID uint `json:"problem_statement_id" binding:"required"`
	}
	var req SelectRequest
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team leader can select a problem statement"})
		return
	}

	var ps models.ProblemStatement
	if err := config.DB.Where("problem_statement_id = ? AND is_active = ?", req.ProblemStatementID, true).
		First(&ps).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem statement not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&team).Updates(map[string]interface{}{
		"problem_statement_id": ps.ProblemStatementID,
		"update_at":            now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Problem statement selected", "problem_statement": ps})
}

// UpdatePhaseStatus records phase feedback from the team's mentor or SPOC
// (or an admin) and recomputes progress.
func UpdatePhaseStatus(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil || teamID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team id"})
		return
	}
	phase := c.Param("phase")

	type PhaseRequest struct {
		Status string `json:"status" binding:"required,oneof=pending approved changes-required"`
		Note   string `json:"note"`
	}
	var req PhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var team models.Team
	if err := config.DB.First(&team, "team_id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	userID, _ := getCurrentUserID(c)
	role := getCurrentRole(c)
	switch role {
	case models.RoleAdmin:
	case models.RoleMentor:
		if team.MentorID == nil || *team.MentorID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the assigned mentor can review this team"})
			return
		}
	case models.RoleSpoc:
		if team.SpocID == nil || *team.SpocID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the institute SPOC can review this team"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	if err := team.SetPhaseStatus(phase, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	team.UpdateAt = &now
	if err := config.DB.Save(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update phase"})
		return
	}

	notifyTeamPhaseChange(&team, phase, req.Status, req.Note, userID)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Phase updated",
		"team":     team,
		"phases":   team.PhaseStatuses(),
		"progress": team.Progress,
	})
}

func notifyTeamPhaseChange(team *models.Team, phase, status, note string, reviewerID uint) {
	recipients := models.UintList{team.LeaderID}
	for _, id := range team.MemberIDs {
		if id != team.LeaderID {
			recipients = append(recipients, id)
		}
	}

	message := "Your " + phase + " phase was marked " + status + "."
	if note != "" {
		message += " Note: " + note
	}
	n := models.Notification{
		Title:         "Phase Review",
		Message:       message,
		Type:          models.NotificationTypeTeam,
		Audience:      models.AudienceCustom,
		RecipientIDs:  recipients,
		CreatedBy:     &reviewerID,
		RelatedTeamID: &team.TeamID,
	}
	if err := notificationService().Create(&n); err != nil {
		// Non-critical side effect; the phase update already committed.
		logSideEffect("phase notification", err)
	}
}
