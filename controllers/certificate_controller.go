package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// GenerateTeamCertificates issues a certificate to every member of a team
// (admin only). Completion certificates require the final phase approved;
// otherwise members get participation certificates. Idempotent per
// (team, user).
func GenerateTeamCertificates(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil || teamID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team id"})
		return
	}

	var team models.Team
	if err := config.DB.First(&team, "team_id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	if team.Status != models.TeamStatusApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Certificates can only be issued for approved teams"})
		return
	}

	kind := models.CertificateParticipation
	if team.PhaseFinalStatus == models.PhaseStatusApproved {
		kind = models.CertificateCompletion
	}

	memberIDs := models.UintList{team.LeaderID}
	for _, id := range team.MemberIDs {
		if id != team.LeaderID {
			memberIDs = append(memberIDs, id)
		}
	}

	now := time.Now()
	issued := make([]models.Certificate, 0, len(memberIDs))
	for _, userID := range memberIDs {
		cert := models.Certificate{
			TeamID:   team.TeamID,
			UserID:   userID,
			Kind:     kind,
			Serial:   uuid.New().String(),
			IssuedAt: now,
		}
		// The unique (team_id, user_id) index makes reissue a no-op.
		if err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&cert).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue certificates"})
			return
		}
		issued = append(issued, cert)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Certificates issued",
		"kind":         kind,
		"certificates": issued,
	})
}

// GetMyCertificates returns the caller's certificates.
func GetMyCertificates(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var certs []models.Certificate
	if err := config.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch certificates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// VerifyCertificate resolves a serial to its certificate (public).
func VerifyCertificate(c *gin.Context) {
	serial := c.Param("serial")
	if serial == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid serial"})
		return
	}

	var cert models.Certificate
	if err := config.DB.First(&cert, "serial = ?", serial).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}

	var team models.Team
	_ = config.DB.First(&team, "team_id = ?", cert.TeamID).Error

	c.JSON(http.StatusOK, gin.H{
		"certificate": cert,
		"team_name":   team.TeamName,
	})
}
