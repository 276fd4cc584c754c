package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"

	"github.com/gin-gonic/gin"
)

type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required,oneof=all admins spocs students mentors judges"`
}

// CreateAnnouncement publishes an announcement and fans it out as a
// notification to the target audience (admin only).
func CreateAnnouncement(c *gin.Context) {
	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getCurrentUserID(c)
	announcement := models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  req.Audience,
		CreatedBy: userID,
		IsActive:  true,
		CreateAt:  time.Now(),
	}
	if err := config.DB.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	n := models.Notification{
		Title:     req.Title,
		Message:   req.Body,
		Type:      models.NotificationTypeInfo,
		Audience:  req.Audience,
		CreatedBy: &userID,
	}
	if err := notificationService().Create(&n); err != nil {
		logSideEffect("announcement notification", err)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Announcement published", "announcement": announcement})
}

// GetAnnouncements lists active announcements visible to the caller's role,
// newest first.
func GetAnnouncements(c *gin.Context) {
	audience := models.AudienceForRole(getCurrentRole(c))

	var announcements []models.Announcement
	if err := config.DB.Where("is_active = ? AND (audience = ? OR audience = ?)",
		true, models.AudienceAll, audience).
		Order("create_at DESC").Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

// DeactivateAnnouncement retires an announcement (admin only).
func DeactivateAnnouncement(c *gin.Context) {
	announcementID, err := strconv.Atoi(c.Param("id"))
	if err != nil || announcementID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement id"})
		return
	}

	result := config.DB.Model(&models.Announcement{}).
		Where("announcement_id = ?", announcementID).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate announcement"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deactivated"})
}
