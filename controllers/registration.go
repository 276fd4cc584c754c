package controllers

import (
	"net/http"
	"strings"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"
	"hackathon-management-api/utils"

	"github.com/gin-gonic/gin"
)

type TeamRegistrationRequest struct {
	TeamName      string `json:"team_name" binding:"required"`
	InstituteCode string `json:"institute_code" binding:"required"`
	InstituteName string `json:"institute_name" binding:"required"`

	LeaderName     string `json:"leader_name" binding:"required"`
	LeaderEmail    string `json:"leader_email" binding:"required,email"`
	LeaderPassword string `json:"leader_password" binding:"required,min=8"`

	SpocName     string `json:"spoc_name" binding:"required"`
	SpocEmail    string `json:"spoc_email" binding:"required,email"`
	SpocDistrict string `json:"spoc_district"`
	SpocState    string `json:"spoc_state"`

	MentorName  string `json:"mentor_name" binding:"required"`
	MentorEmail string `json:"mentor_email" binding:"required,email"`

	Members []models.MemberRef `json:"members"`

	ConsentRef         string `json:"consent_ref"`
	ProblemStatementID *uint  `json:"problem_statement_id"`
}

// RegisterTeam stages a public team registration for the admin governance
// decision. Nothing is provisioned here; approval does all the work.
func RegisterTeam(c *gin.Context) {
	var req TeamRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, member := range req.Members {
		if member.Name == "" || !utils.ValidateEmail(member.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each member needs a name and a valid email"})
			return
		}
	}

	teamName := utils.SanitizeInput(req.TeamName)
	leaderEmail := strings.ToLower(strings.TrimSpace(req.LeaderEmail))

	// Reject names/emails that are already live or already staged.
	var count int64
	if err := config.DB.Model(&models.Team{}).Where("team_name = ?", teamName).Count(&count).Error; err == nil && count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A team with this name already exists"})
		return
	}
	if err := config.DB.Model(&models.PendingRegistration{}).Where("team_name = ?", teamName).Count(&count).Error; err == nil && count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A registration for this team name is already pending"})
		return
	}
	if err := config.DB.Model(&models.User{}).Where("email = ? AND delete_at IS NULL", leaderEmail).Count(&count).Error; err == nil && count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An account with this email already exists"})
		return
	}

	// Hash the leader password exactly once. Approval later persists this
	// hash as-is through the pre-hashed account entry point.
	hashed, err := utils.HashPassword(req.LeaderPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process registration"})
		return
	}

	reg := models.PendingRegistration{
		TeamName:           teamName,
		InstituteCode:      utils.NormalizeInstituteCode(req.InstituteCode),
		InstituteName:      utils.SanitizeInput(req.InstituteName),
		LeaderName:         utils.SanitizeInput(req.LeaderName),
		LeaderEmail:        leaderEmail,
		LeaderPassword:     hashed,
		SpocName:           utils.SanitizeInput(req.SpocName),
		SpocEmail:          strings.ToLower(strings.TrimSpace(req.SpocEmail)),
		SpocDistrict:       utils.SanitizeInput(req.SpocDistrict),
		SpocState:          utils.SanitizeInput(req.SpocState),
		MentorName:         utils.SanitizeInput(req.MentorName),
		MentorEmail:        strings.ToLower(strings.TrimSpace(req.MentorEmail)),
		Members:            req.Members,
		ConsentRef:         strings.TrimSpace(req.ConsentRef),
		ProblemStatementID: req.ProblemStatementID,
		Status:             models.RegistrationStatusPending,
		CreateAt:           time.Now(),
	}

	if err := config.DB.Create(&reg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save registration"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Registration submitted. You will be notified once it is reviewed.",
		"registration_id": reg.RegistrationID,
	})
}
