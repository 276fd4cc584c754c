package controllers

import (
	"net/http"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"
	"hackathon-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// GetInstitutes returns the active institute directory for registration forms.
func GetInstitutes(c *gin.Context) {
	var institutes []models.Institute
	if err := config.DB.Where("is_active = ?", true).Order("name ASC").Find(&institutes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch institutes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"institutes": institutes})
}

// UpsertInstitute creates or renames an institute by code (admin only).
func UpsertInstitute(c *gin.Context) {
	type InstituteRequest struct {
		Code string `json:"code" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	var req InstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	institute := models.Institute{
		Code:     utils.NormalizeInstituteCode(req.Code),
		Name:     req.Name,
		IsActive: true,
		CreateAt: now,
	}
	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_active"}),
	}).Create(&institute).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save institute"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Institute saved", "institute": institute})
}
