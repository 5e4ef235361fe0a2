package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/utils"
)

type CreateMentorInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Speciality string `json:"speciality"`
}

// POST /admin/mentors
func CreateMentor(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateMentorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name and a valid email are required"})
		return
	}

	mentor := models.Mentor{
		FullName:   input.FullName,
		Email:      input.Email,
		Speciality: input.Speciality,
		IsActive:   true,
	}
	if err := db.Create(&mentor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create mentor"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Mentor created",
		"mentor":  mentor,
	})
}

// GET /admin/mentors
func GetMentors(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var mentors []models.Mentor
	query := db.Model(&models.Mentor{})
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("full_name ASC").Find(&mentors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list mentors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(mentors),
		"mentors": mentors,
	})
}

type CreateStudentInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Company  string `json:"company"`
}

// POST /admin/students
func CreateStudent(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name and a valid email are required"})
		return
	}

	student := models.Student{
		FullName: input.FullName,
		Email:    input.Email,
		Company:  input.Company,
	}
	if err := db.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create student"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Student created",
		"student": student,
	})
}

// GET /admin/students
func GetStudents(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var students []models.Student
	query := db.Model(&models.Student{})
	if search := c.Query("search"); search != "" {
		query = query.Where("(full_name ILIKE ? OR email ILIKE ? OR company ILIKE ?)",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Order("full_name ASC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(students),
		"students": students,
	})
}

type CreateAssignmentInput struct {
	MentorID    uuid.UUID  `json:"mentor_id" binding:"required"`
	StudentID   uuid.UUID  `json:"student_id" binding:"required"`
	FormationID *uuid.UUID `json:"formation_id"`
	Notes       string     `json:"notes"`
}

// POST /admin/mentor-assignments
func CreateMentorAssignment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mentor_id and student_id are required"})
		return
	}

	var mentor models.Mentor
	if err := db.First(&mentor, "id = ?", input.MentorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
		return
	}
	if !mentor.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mentor is inactive"})
		return
	}

	var student models.Student
	if err := db.First(&student, "id = ?", input.StudentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var formationTitle string
	if input.FormationID != nil {
		var formation models.Formation
		if err := db.First(&formation, "id = ?", *input.FormationID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Formation not found"})
			return
		}
		formationTitle = formation.Title
	}

	// One active pairing per mentor/student couple.
	var count int64
	db.Model(&models.MentorAssignment{}).
		Where("mentor_id = ? AND student_id = ? AND status = ?", input.MentorID, input.StudentID, models.AssignmentStatusActive).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This mentor is already assigned to this student"})
		return
	}

	assignment := models.MentorAssignment{
		MentorID:    input.MentorID,
		StudentID:   input.StudentID,
		FormationID: input.FormationID,
		Status:      models.AssignmentStatusActive,
		Notes:       input.Notes,
	}
	if err := db.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create assignment"})
		return
	}

	// Notify both sides; a mail failure only gets logged.
	subject := "New mentoring assignment"
	detail := ""
	if formationTitle != "" {
		detail = fmt.Sprintf(" for the formation <b>%s</b>", formationTitle)
	}
	mentorBody := fmt.Sprintf("<p>Hello %s,</p><p>You are now mentoring <b>%s</b>%s.</p>", mentor.FullName, student.FullName, detail)
	studentBody := fmt.Sprintf("<p>Hello %s,</p><p><b>%s</b> is now your mentor%s.</p>", student.FullName, mentor.FullName, detail)
	if err := utils.SendEmail(mentor.Email, subject, mentorBody); err != nil {
		log.Println("mentor notification failed:", err)
	}
	if err := utils.SendEmail(student.Email, subject, studentBody); err != nil {
		log.Println("student notification failed:", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Assignment created",
		"assignment": assignment,
	})
}

// GET /admin/mentor-assignments
func GetMentorAssignments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var assignments []models.MentorAssignment
	query := db.Model(&models.MentorAssignment{}).
		Preload("Mentor").
		Preload("Student")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if mentorID := c.Query("mentor_id"); mentorID != "" {
		query = query.Where("mentor_id = ?", mentorID)
	}

	if err := query.Order("started_at DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":       len(assignments),
		"assignments": assignments,
	})
}

// PATCH /admin/mentor-assignments/:id/close
func CloseMentorAssignment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	assignmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment id"})
		return
	}

	var assignment models.MentorAssignment
	if err := db.First(&assignment, "id = ?", assignmentUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	if assignment.Status == models.AssignmentStatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignment is already closed"})
		return
	}

	now := time.Now()
	assignment.Status = models.AssignmentStatusClosed
	assignment.ClosedAt = &now
	if err := db.Save(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot close assignment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Assignment closed",
		"assignment": assignment,
	})
}
