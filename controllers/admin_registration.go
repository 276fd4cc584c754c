package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"hackathon-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetPendingRegistrations lists staged registrations for the admin review
// queue, newest first.
func GetPendingRegistrations(c *gin.Context) {
	registrations, err := approvalService().ListPending()
	if err != nil {
		log.Printf("list pending registrations failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations})
}

// ApproveRegistration runs the governance approval workflow for one staged
// registration.
func ApproveRegistration(c *gin.Context) {
	registrationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || registrationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	adminID, _ := getCurrentUserID(c)

	result, err := approvalService().Approve(uint(registrationID), adminID)
	if err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending registration not found"})
			return
		}
		if msg, ok := conflictMessage(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		log.Printf("approval of registration %d failed: %v", registrationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve registration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Team approved successfully",
		"team":        result.Team,
		"credentials": result.Credentials,
		"warnings":    result.Warnings,
	})
}

// RejectRegistration deletes a staged registration with a reason.
func RejectRegistration(c *gin.Context) {
	registrationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || registrationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	type RejectRequest struct {
		Reason string `json:"reason" binding:"required"`
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warnings, err := approvalService().Reject(uint(registrationID), req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending registration not found"})
			return
		}
		log.Printf("rejection of registration %d failed: %v", registrationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject registration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Registration rejected",
		"warnings": warnings,
	})
}
