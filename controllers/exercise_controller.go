package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
)

type CreateExerciseInput struct {
	Title                    string `json:"title" binding:"required"`
	Statement                string `json:"statement"`
	EstimatedDurationMinutes *int   `json:"estimated_duration_minutes"`
}

type UpdateExerciseInput struct {
	Title                    *string `json:"title"`
	Statement                *string `json:"statement"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes"`
}

// POST /admin/courses/:id/exercises
func CreateExercise(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	courseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}

	var course models.Course
	if err := db.First(&course, "id = ?", courseUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var input CreateExerciseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exercise title is required"})
		return
	}

	exercise := models.Exercise{
		CourseID:                 course.ID,
		Title:                    input.Title,
		Statement:                input.Statement,
		EstimatedDurationMinutes: input.EstimatedDurationMinutes,
		IsActive:                 true,
	}

	if err := db.Create(&exercise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create exercise"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindExercise, exercise.ID, services.OpCreate, nil)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Exercise created",
		"exercise": exercise,
	})
}

// GET /admin/courses/:id/exercises
func GetExercisesByCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	courseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}

	var exercises []models.Exercise
	if err := db.Where("course_id = ?", courseUUID).Order("created_at ASC").Find(&exercises).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list exercises"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(exercises),
		"exercises": exercises,
	})
}

// PUT /admin/exercises/:id
func UpdateExercise(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	exerciseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise id"})
		return
	}

	var exercise models.Exercise
	if err := db.First(&exercise, "id = ?", exerciseUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	var input UpdateExerciseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	durationChanged := false
	if input.Title != nil {
		exercise.Title = *input.Title
	}
	if input.Statement != nil {
		exercise.Statement = *input.Statement
	}
	if input.EstimatedDurationMinutes != nil {
		exercise.EstimatedDurationMinutes = input.EstimatedDurationMinutes
		durationChanged = true
	}

	if err := db.Save(&exercise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update exercise"})
		return
	}

	if durationChanged {
		durationDispatcher(c).Dispatch(services.KindExercise, exercise.ID, services.OpUpdate, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Exercise updated",
		"exercise": exercise,
	})
}

// PATCH /admin/exercises/:id/toggle-status
func ToggleExerciseActive(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	exerciseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise id"})
		return
	}

	var exercise models.Exercise
	if err := db.First(&exercise, "id = ?", exerciseUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	exercise.IsActive = !exercise.IsActive
	if err := db.Save(&exercise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle exercise"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindExercise, exercise.ID, services.OpToggle, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Exercise status toggled",
		"is_active": exercise.IsActive,
	})
}

// DELETE /admin/exercises/:id
func DeleteExercise(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	exerciseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise id"})
		return
	}

	var exercise models.Exercise
	if err := db.First(&exercise, "id = ?", exerciseUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	if err := db.Delete(&exercise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete exercise"})
		return
	}

	// The exercise row is gone; restart propagation from the course.
	durationDispatcher(c).Dispatch(services.KindCourse, exercise.CourseID, services.OpDelete, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted"})
}
