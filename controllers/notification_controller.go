package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"hackathon-management-api/models"
	"hackathon-management-api/services"

	"github.com/gin-gonic/gin"
)

type CreateNotificationRequest struct {
	Title         string `json:"title" binding:"required"`
	Message       string `json:"message" binding:"required"`
	Type          string `json:"type" binding:"omitempty,oneof=info warning success team system"`
	Audience      string `json:"audience" binding:"required,oneof=all admins spocs students mentors judges custom"`
	RecipientIDs  []uint `json:"recipient_ids"`
	InstituteCode string `json:"institute_code"`
	RelatedTeamID *uint  `json:"related_team_id"`
}

// CreateNotification publishes a notification (admin only). Custom-audience
// notifications need explicit recipients or an institute scope.
func CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Audience == models.AudienceCustom && len(req.RecipientIDs) == 0 && req.InstituteCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Custom notifications need recipients or an institute code"})
		return
	}

	if req.Type == "" {
		req.Type = models.NotificationTypeInfo
	}

	userID, _ := getCurrentUserID(c)
	n := models.Notification{
		Title:         req.Title,
		Message:       req.Message,
		Type:          req.Type,
		Audience:      req.Audience,
		RecipientIDs:  req.RecipientIDs,
		InstituteCode: req.InstituteCode,
		RelatedTeamID: req.RelatedTeamID,
		CreatedBy:     &userID,
	}
	if err := notificationService().Create(&n); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Notification created", "notification": n})
}

// GetNotifications lists notifications visible to the caller, newest first.
// Supports ?unread=true, ?limit= and ?offset=.
func GetNotifications(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	role := getCurrentRole(c)
	institute := getCurrentInstitute(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	unreadOnly := c.Query("unread") == "true"

	items, err := notificationService().ListVisible(userID, role, institute, unreadOnly, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// GetNotificationCounter returns the caller's unread count for the badge.
func GetNotificationCounter(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	count, err := notificationService().UnreadCount(userID, getCurrentRole(c), getCurrentInstitute(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead records the caller in the notification's read set.
func MarkNotificationRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || notificationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	userID, _ := getCurrentUserID(c)
	err = notificationService().MarkRead(userID, uint(notificationID), getCurrentRole(c), getCurrentInstitute(c))
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead clears the caller's unread set in one pass.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	marked, err := notificationService().MarkAllRead(userID, getCurrentRole(c), getCurrentInstitute(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "marked": marked})
}

// DeactivateNotification hides a notification from every feed (admin only).
func DeactivateNotification(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || notificationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := notificationService().Deactivate(uint(notificationID)); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deactivated"})
}
