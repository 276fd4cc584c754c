package controllers

import (
	"errors"
	"log"

	"hackathon-management-api/config"
	"hackathon-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case uint:
			return t, true
		case int:
			return uint(t), true
		case int64:
			return uint(t), true
		case float64:
			return uint(t), true
		}
	}
	return 0, false
}

func getCurrentRole(c *gin.Context) string {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func getCurrentInstitute(c *gin.Context) string {
	if v, ok := c.Get("instituteCode"); ok {
		if code, ok := v.(string); ok {
			return code
		}
	}
	return ""
}

func approvalService() *services.ApprovalService {
	return services.NewApprovalService(config.DB, services.NewSMTPEmailService())
}

func accountService() *services.AccountService {
	return services.NewAccountService(config.DB)
}

func notificationService() *services.NotificationService {
	return services.NewNotificationService(config.DB)
}

func submissionService() *services.SubmissionService {
	return services.NewSubmissionService(config.DB, notificationService())
}

func logSideEffect(what string, err error) {
	log.Printf("%s failed: %v", what, err)
}

// conflictMessage maps account-provisioning conflicts to the message text the
// admin UI shows verbatim.
func conflictMessage(err error) (string, bool) {
	var governed *services.GovernedRoleConflictError
	if errors.As(err, &governed) {
		return governed.Error(), true
	}
	if errors.Is(err, services.ErrEmailTaken) {
		return "An account with this email already exists", true
	}
	return "", false
}
