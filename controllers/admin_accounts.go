package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hackathon-management-api/config"
	"hackathon-management-api/models"
	"hackathon-management-api/services"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password"` // empty means generate
	Role          string   `json:"role" binding:"required,oneof=admin spoc mentor judge student"`
	InstituteCode string   `json:"institute_code"`
	InstituteName string   `json:"institute_name"`
	District      *string  `json:"district"`
	State         *string  `json:"state"`
	Expertise     []string `json:"expertise"`
	Phone         *string  `json:"phone"`
}

// CreateUser provisions an account directly (admin only). SPOC and mentor
// roles are capped at one per institute.
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, generated, err := accountService().Create(services.CreateAccountInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		InstituteCode: req.InstituteCode,
		InstituteName: req.InstituteName,
		District:      req.District,
		State:         req.State,
		Expertise:     req.Expertise,
		Phone:         req.Phone,
	})
	if err != nil {
		if msg, ok := conflictMessage(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	response := gin.H{
		"message": "User created successfully",
		"user":    user,
	}
	if generated != "" {
		response["generated_password"] = generated
	}
	c.JSON(http.StatusCreated, response)
}

// GetUsers lists accounts, optionally filtered by role or institute code.
func GetUsers(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if code := c.Query("institute_code"); code != "" {
		query = query.Where("institute_code = ?", code)
	}

	var users []models.User
	if err := query.Order("create_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// DeleteUser soft-deletes an account. Teams referencing the account are left
// untouched; nothing cascades.
func DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	// Free the governed-role slot so the institute can get a new SPOC/mentor.
	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"delete_at":         now,
		"governed_role_key": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// AssignJudgeTeam adds a team to a judge's assignment list.
func AssignJudgeTeam(c *gin.Context) {
	judgeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || judgeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid judge id"})
		return
	}

	type AssignRequest struct {
		TeamID uint `json:"team_id" binding:"required"`
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var judge models.User
	if err := config.DB.Where("user_id = ? AND role = ? AND delete_at IS NULL", judgeID, models.RoleJudge).
		First(&judge).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Judge not found"})
		return
	}

	var team models.Team
	if err := config.DB.First(&team, "team_id = ?", req.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	for _, id := range judge.AssignedTeamIDs {
		if id == req.TeamID {
			c.JSON(http.StatusOK, gin.H{"message": "Team already assigned to this judge"})
			return
		}
	}

	judge.AssignedTeamIDs = append(judge.AssignedTeamIDs, req.TeamID)
	now := time.Now()
	judge.UpdateAt = &now
	if err := config.DB.Save(&judge).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team assigned to judge", "judge": judge})
}
