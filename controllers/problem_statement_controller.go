package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetProblemStatements lists active challenges, optionally filtered by
// category.
func GetProblemStatements(c *gin.Context) {
	query := config.DB.Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var statements []models.ProblemStatement
	if err := query.Order("create_at DESC").Find(&statements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch problem statements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"problem_statements": statements})
}

// CreateProblemStatement adds a challenge to the catalog (admin only).
func CreateProblemStatement(c *gin.Context) {
	type ProblemStatementRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Category    string `json:"category"`
	}
	var req ProblemStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ps := models.ProblemStatement{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsActive:    true,
		CreateAt:    time.Now(),
	}
	if err := config.DB.Create(&ps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create problem statement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Problem statement created", "problem_statement": ps})
}

// UpdateProblemStatement edits or retires a challenge (admin only).
func UpdateProblemStatement(c *gin.Context) {
	psID, err := strconv.Atoi(c.Param("id"))
	if err != nil || psID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem statement id"})
		return
	}

	type UpdateRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		IsActive    *bool   `json:"is_active"`
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ps models.ProblemStatement
	if err := config.DB.First(&ps, "problem_statement_id = ?", psID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem statement not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	updates["update_at"] = time.Now()

	if err := config.DB.Model(&ps).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update problem statement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Problem statement updated", "problem_statement": ps})
}
