package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
)

type CreateChapterInput struct {
	Title     string `json:"title" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateChapterInput struct {
	Title     *string `json:"title"`
	SortOrder *int    `json:"sort_order"`
}

// POST /admin/modules/:id/chapters
func CreateChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	moduleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module id"})
		return
	}

	var module models.Module
	if err := db.First(&module, "id = ?", moduleUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	var input CreateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chapter title is required"})
		return
	}

	chapter := models.Chapter{
		ModuleID:  module.ID,
		Title:     input.Title,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if chapter.SortOrder == 0 {
		chapter.SortOrder = 1
	}

	if err := db.Create(&chapter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create chapter"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindChapter, chapter.ID, services.OpCreate, map[string]string{
		"formation_id": module.FormationID.String(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Chapter created",
		"chapter": chapter,
	})
}

// GET /admin/chapters/:id
func GetChapterDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	chapterUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter id"})
		return
	}

	var chapter models.Chapter
	err = db.
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Courses.Exercises").
		Preload("Courses.QCMs").
		First(&chapter, "id = ?", chapterUUID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

// PUT /admin/chapters/:id
func UpdateChapter(c *gin.Context) {
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

	var input UpdateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if input.Title != nil {
		chapter.Title = *input.Title
	}
	if input.SortOrder != nil {
		chapter.SortOrder = *input.SortOrder
	}

	if err := db.Save(&chapter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update chapter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Chapter updated",
		"chapter": chapter,
	})
}

// PATCH /admin/chapters/:id/toggle-status
func ToggleChapterActive(c *gin.Context) {
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

	chapter.IsActive = !chapter.IsActive
	if err := db.Save(&chapter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle chapter"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindChapter, chapter.ID, services.OpToggle, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Chapter status toggled",
		"is_active": chapter.IsActive,
	})
}

// DELETE /admin/chapters/:id
func DeleteChapter(c *gin.Context) {
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

	if err := db.Delete(&chapter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete chapter"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindModule, chapter.ModuleID, services.OpDelete, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted"})
}
