package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/utils"
)

// Allowed workflow transitions for a needs-analysis request.
var needsTransitions = map[string][]string{
	models.NeedsStatusDraft:        {models.NeedsStatusSubmitted},
	models.NeedsStatusSubmitted:    {models.NeedsStatusInReview, models.NeedsStatusClosed},
	models.NeedsStatusInReview:     {models.NeedsStatusProposalSent, models.NeedsStatusClosed},
	models.NeedsStatusProposalSent: {models.NeedsStatusConverted, models.NeedsStatusClosed},
}

func needsTransitionAllowed(from, to string) bool {
	for _, s := range needsTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type CreateNeedsAnalysisInput struct {
	Company      string                 `json:"company" binding:"required"`
	ContactName  string                 `json:"contact_name" binding:"required"`
	ContactEmail string                 `json:"contact_email" binding:"required,email"`
	Phone        string                 `json:"phone"`
	Headcount    int                    `json:"headcount"`
	Objectives   string                 `json:"objectives"`
	Details      map[string]interface{} `json:"details"`
}

// POST /public/needs-analysis
// Public intake endpoint, creates the request as a draft.
func CreateNeedsAnalysis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateNeedsAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company, contact name and a valid contact email are required"})
		return
	}

	var details datatypes.JSON
	if len(input.Details) > 0 {
		raw, _ := json.Marshal(input.Details)
		details = datatypes.JSON(raw)
	}

	request := models.NeedsAnalysisRequest{
		Company:      input.Company,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		Phone:        input.Phone,
		Headcount:    input.Headcount,
		Objectives:   input.Objectives,
		Details:      details,
		Status:       models.NeedsStatusDraft,
	}

	if err := db.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create needs-analysis request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Needs-analysis request created",
		"request": request,
	})
}

// POST /public/needs-analysis/:id/submit
func SubmitNeedsAnalysis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var request models.NeedsAnalysisRequest
	if err := db.First(&request, "id = ?", requestUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	if !needsTransitionAllowed(request.Status, models.NeedsStatusSubmitted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot submit a request in status %q", request.Status)})
		return
	}

	now := time.Now()
	request.Status = models.NeedsStatusSubmitted
	request.SubmittedAt = &now
	if err := db.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot submit request"})
		return
	}

	// Notify the training team; delivery failure must not fail the submit.
	if teamEmail := os.Getenv("TRAINING_TEAM_EMAIL"); teamEmail != "" {
		body := fmt.Sprintf(
			"<h3>New needs-analysis request</h3><p><b>%s</b> (%s, %s)</p><p>Headcount: %d</p><p>%s</p>",
			request.Company, request.ContactName, request.ContactEmail, request.Headcount, request.Objectives,
		)
		if err := utils.SendEmail(teamEmail, "New needs-analysis request: "+request.Company, body); err != nil {
			log.Println("needs-analysis notification failed:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request submitted",
		"request": request,
	})
}

// GET /admin/needs-analysis
func GetNeedsAnalysisRequests(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var requests []models.NeedsAnalysisRequest
	query := db.Model(&models.NeedsAnalysisRequest{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("(company ILIKE ? OR contact_name ILIKE ? OR contact_email ILIKE ?)",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(requests),
		"requests": requests,
	})
}

type NeedsStatusInput struct {
	Status      string `json:"status" binding:"required"`
	ReviewNotes string `json:"review_notes"`
}

// PATCH /admin/needs-analysis/:id/status
func UpdateNeedsAnalysisStatus(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var request models.NeedsAnalysisRequest
	if err := db.First(&request, "id = ?", requestUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	var input NeedsStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target status is required"})
		return
	}

	if !needsTransitionAllowed(request.Status, input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Transition %q -> %q is not allowed", request.Status, input.Status)})
		return
	}

	request.Status = input.Status
	if input.ReviewNotes != "" {
		request.ReviewNotes = input.ReviewNotes
	}
	if err := db.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"request": request,
	})
}

type ConvertNeedsInput struct {
	FormationID uuid.UUID `json:"formation_id" binding:"required"`
}

// POST /admin/needs-analysis/:id/convert
// Links the request to the formation built for it and notifies the contact.
func ConvertNeedsAnalysis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	var request models.NeedsAnalysisRequest
	if err := db.First(&request, "id = ?", requestUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	if !needsTransitionAllowed(request.Status, models.NeedsStatusConverted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot convert a request in status %q", request.Status)})
		return
	}

	var input ConvertNeedsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formation_id is required"})
		return
	}

	var formation models.Formation
	if err := db.First(&formation, "id = ?", input.FormationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Formation not found"})
		return
	}

	request.Status = models.NeedsStatusConverted
	request.FormationID = &formation.ID
	if err := db.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot convert request"})
		return
	}

	body := fmt.Sprintf(
		"<h3>Your training plan is ready</h3><p>Hello %s,</p><p>The formation <b>%s</b> (%d hours) has been prepared for %s.</p>",
		request.ContactName, formation.Title, formation.DurationHours, request.Company,
	)
	if err := utils.SendEmail(request.ContactEmail, "Your training plan: "+formation.Title, body); err != nil {
		log.Println("conversion notification failed:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request converted",
		"request": request,
	})
}
