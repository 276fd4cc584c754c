package controllers

import (
	"net/http"

	"hackathon-management-api/config"
	"hackathon-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetAdminDashboard aggregates the headline counts for the admin overview.
func GetAdminDashboard(c *gin.Context) {
	var (
		pendingCount    int64
		teamCount       int64
		approvedTeams   int64
		studentCount    int64
		spocCount       int64
		mentorCount     int64
		judgeCount      int64
		submissionCount int64
		instituteCount  int64
	)

	db := config.DB
	db.Model(&models.PendingRegistration{}).Where("status = ?", models.RegistrationStatusPending).Count(&pendingCount)
	db.Model(&models.Team{}).Count(&teamCount)
	db.Model(&models.Team{}).Where("status = ?", models.TeamStatusApproved).Count(&approvedTeams)
	db.Model(&models.User{}).Where("role = ? AND delete_at IS NULL", models.RoleStudent).Count(&studentCount)
	db.Model(&models.User{}).Where("role = ? AND delete_at IS NULL", models.RoleSpoc).Count(&spocCount)
	db.Model(&models.User{}).Where("role = ? AND delete_at IS NULL", models.RoleMentor).Count(&mentorCount)
	db.Model(&models.User{}).Where("role = ? AND delete_at IS NULL", models.RoleJudge).Count(&judgeCount)
	db.Model(&models.Submission{}).Where("delete_at IS NULL").Count(&submissionCount)
	db.Model(&models.Institute{}).Where("is_active = ?", true).Count(&instituteCount)

	c.JSON(http.StatusOK, gin.H{
		"pending_registrations": pendingCount,
		"teams":                 teamCount,
		"approved_teams":        approvedTeams,
		"students":              studentCount,
		"spocs":                 spocCount,
		"mentors":               mentorCount,
		"judges":                judgeCount,
		"submissions":           submissionCount,
		"institutes":            instituteCount,
	})
}

// GetSpocDashboard aggregates counts scoped to the SPOC's institute.
func GetSpocDashboard(c *gin.Context) {
	code := getCurrentInstitute(c)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No institute associated with this account"})
		return
	}

	var (
		teamCount     int64
		approvedTeams int64
		studentCount  int64
	)

	db := config.DB
	db.Model(&models.Team{}).Where("institute_code = ?", code).Count(&teamCount)
	db.Model(&models.Team{}).Where("institute_code = ? AND status = ?", code, models.TeamStatusApproved).Count(&approvedTeams)
	db.Model(&models.User{}).Where("institute_code = ? AND role = ? AND delete_at IS NULL", code, models.RoleStudent).Count(&studentCount)

	c.JSON(http.StatusOK, gin.H{
		"institute_code": code,
		"teams":          teamCount,
		"approved_teams": approvedTeams,
		"students":       studentCount,
	})
}
