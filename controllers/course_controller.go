package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
)

type CreateCourseInput struct {
	Title               string `json:"title" binding:"required"`
	Content             string `json:"content"`
	SortOrder           int    `json:"sort_order"`
	BaseDurationMinutes int    `json:"base_duration_minutes"`
}

type UpdateCourseInput struct {
	Title               *string `json:"title"`
	Content             *string `json:"content"`
	SortOrder           *int    `json:"sort_order"`
	BaseDurationMinutes *int    `json:"base_duration_minutes"`
}

// POST /admin/chapters/:id/courses
func CreateCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	chapterUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter id"})
		return
	}

	var chapter models.Chapter
	if err := db.First(&chapter, "id = ?", chapterUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	var input CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course title is required"})
		return
	}

	course := models.Course{
		ChapterID:           chapter.ID,
		Title:               input.Title,
		Content:             input.Content,
		SortOrder:           input.SortOrder,
		BaseDurationMinutes: input.BaseDurationMinutes,
		IsActive:            true,
	}
	if course.SortOrder == 0 {
		course.SortOrder = 1
	}

	if err := db.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create course"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindCourse, course.ID, services.OpCreate, nil)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Course created",
		"course":  course,
	})
}

// GET /admin/courses/:id
func GetCourseDetail(c *gin.Context) {
	calc := durationCalc(c)

	courseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}

	course, err := durationStore(c).Course(courseUUID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot load course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"course":           course,
		"computed_minutes": calc.CourseDuration(course),
	})
}

// PUT /admin/courses/:id
func UpdateCourse(c *gin.Context) {
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

	var input UpdateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	baseChanged := false
	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Content != nil {
		course.Content = *input.Content
	}
	if input.SortOrder != nil {
		course.SortOrder = *input.SortOrder
	}
	if input.BaseDurationMinutes != nil && *input.BaseDurationMinutes != course.BaseDurationMinutes {
		course.BaseDurationMinutes = *input.BaseDurationMinutes
		baseChanged = true
	}

	if err := db.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update course"})
		return
	}

	if baseChanged {
		durationDispatcher(c).Dispatch(services.KindCourse, course.ID, services.OpUpdate, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course updated",
		"course":  course,
	})
}

// PATCH /admin/courses/:id/toggle-status
func ToggleCourseActive(c *gin.Context) {
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

	course.IsActive = !course.IsActive
	if err := db.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle course"})
		return
	}

	// The chapter total changes either way; start propagation there.
	durationDispatcher(c).Dispatch(services.KindChapter, course.ChapterID, services.OpToggle, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Course status toggled",
		"is_active": course.IsActive,
	})
}

// DELETE /admin/courses/:id
func DeleteCourse(c *gin.Context) {
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

	if err := db.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete course"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindChapter, course.ChapterID, services.OpDelete, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
