package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
)

type CreateModuleInput struct {
	Title     string `json:"title" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateModuleInput struct {
	Title     *string `json:"title"`
	SortOrder *int    `json:"sort_order"`
}

// POST /admin/formations/:id/modules
func CreateModule(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	formationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid formation id"})
		return
	}

	var formation models.Formation
	if err := db.First(&formation, "id = ?", formationUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Formation not found"})
		return
	}

	var input CreateModuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Module title is required"})
		return
	}

	module := models.Module{
		FormationID: formation.ID,
		Title:       input.Title,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}
	if module.SortOrder == 0 {
		module.SortOrder = 1
	}

	if err := db.Create(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create module"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindModule, module.ID, services.OpCreate, map[string]string{
		"formation_id": formation.ID.String(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Module created",
		"module":  module,
	})
}

// GET /admin/modules/:id
func GetModuleDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	moduleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module id"})
		return
	}

	var module models.Module
	err = db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Chapters.Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&module, "id = ?", moduleUUID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"module": module})
}

// PUT /admin/modules/:id
func UpdateModule(c *gin.Context) {
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

	var input UpdateModuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if input.Title != nil {
		module.Title = *input.Title
	}
	if input.SortOrder != nil {
		module.SortOrder = *input.SortOrder
	}

	if err := db.Save(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update module"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Module updated",
		"module":  module,
	})
}

// PATCH /admin/modules/:id/toggle-status
func ToggleModuleActive(c *gin.Context) {
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

	module.IsActive = !module.IsActive
	if err := db.Save(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle module"})
		return
	}

	// A disabled module no longer counts in the formation total.
	durationDispatcher(c).Dispatch(services.KindModule, module.ID, services.OpToggle, map[string]string{
		"formation_id": module.FormationID.String(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":   "Module status toggled",
		"is_active": module.IsActive,
	})
}

// DELETE /admin/modules/:id
func DeleteModule(c *gin.Context) {
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

	if err := db.Delete(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete module"})
		return
	}

	// The module is gone; recompute from the parent formation.
	durationDispatcher(c).Dispatch(services.KindFormation, module.FormationID, services.OpDelete, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Module deleted"})
}
