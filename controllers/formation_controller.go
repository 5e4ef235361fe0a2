package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
)

type CreateFormationInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateFormationInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// POST /admin/formations
func CreateFormation(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateFormationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formation title is required"})
		return
	}

	var count int64
	db.Model(&models.Formation{}).Where("LOWER(title) = LOWER(?)", input.Title).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A formation with this title already exists"})
		return
	}

	formation := models.Formation{
		Title:       input.Title,
		Description: input.Description,
		Slug:        slug.Make(input.Title),
		IsActive:    true,
	}

	if err := db.Create(&formation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create formation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Formation created",
		"formation": formation,
	})
}

// GET /admin/formations
func GetFormations(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var formations []models.Formation
	query := db.Model(&models.Formation{}).Preload("Modules")

	if active := c.Query("active"); active != "" {
		switch active {
		case "true":
			query = query.Where("formations.is_active = ?", true)
		case "false":
			query = query.Where("formations.is_active = ?", false)
		}
	}

	if search := c.Query("search"); search != "" {
		query = query.Where("formations.title ILIKE ?", "%"+search+"%")
	}

	fromDateStr := c.Query("from_date")
	toDateStr := c.Query("to_date")
	if fromDateStr != "" || toDateStr != "" {
		const layout = "2006-01-02"
		if fromDateStr != "" {
			if fromDate, err := time.Parse(layout, fromDateStr); err == nil {
				query = query.Where("formations.created_at >= ?", fromDate)
			}
		}
		if toDateStr != "" {
			if toDate, err := time.Parse(layout, toDateStr); err == nil {
				query = query.Where("formations.created_at < ?", toDate.AddDate(0, 0, 1))
			}
		}
	}

	if err := query.Order("created_at DESC").Find(&formations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list formations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      len(formations),
		"formations": formations,
	})
}

// GET /admin/formations/:id
func GetFormationDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	formationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid formation id"})
		return
	}

	var formation models.Formation
	err = db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Modules.Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Modules.Chapters.Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&formation, "id = ?", formationUUID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Formation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"formation": formation})
}

// PUT /admin/formations/:id
func UpdateFormation(c *gin.Context) {
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

	var input UpdateFormationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if input.Title != nil {
		formation.Title = *input.Title
		formation.Slug = slug.Make(*input.Title)
	}
	if input.Description != nil {
		formation.Description = *input.Description
	}

	if err := db.Save(&formation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update formation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Formation updated",
		"formation": formation,
	})
}

// PATCH /admin/formations/:id/toggle-status
func ToggleFormationActive(c *gin.Context) {
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

	formation.IsActive = !formation.IsActive
	if err := db.Save(&formation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle formation"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindFormation, formation.ID, services.OpToggle, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Formation status toggled",
		"is_active": formation.IsActive,
	})
}

// DELETE /admin/formations/:id
func DeleteFormation(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	formationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid formation id"})
		return
	}

	if err := db.Delete(&models.Formation{}, "id = ?", formationUUID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete formation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Formation deleted"})
}

// GET /admin/formations/:id/duration
// Returns the stored snapshots alongside the cache-or-compute values for the
// whole tree, flagging staleness per level.
func GetFormationDuration(c *gin.Context) {
	store := durationStore(c)
	calc := durationCalc(c)

	formationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid formation id"})
		return
	}

	formation, err := store.Formation(formationUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Formation not found"})
		return
	}

	modules := make([]gin.H, 0, len(formation.Modules))
	for i := range formation.Modules {
		m := &formation.Modules[i]
		computed := calc.ModuleDuration(m)
		modules = append(modules, gin.H{
			"id":             m.ID,
			"title":          m.Title,
			"stored_hours":   m.DurationHours,
			"computed_hours": computed,
			"stale":          m.DurationHours != computed,
		})
	}

	computed := calc.FormationDuration(formation)
	c.JSON(http.StatusOK, gin.H{
		"formation_id":   formation.ID,
		"stored_hours":   formation.DurationHours,
		"computed_hours": computed,
		"stale":          formation.DurationHours != computed,
		"modules":        modules,
	})
}

// POST /admin/formations/:id/duration/recompute
func RecomputeFormationDuration(c *gin.Context) {
	formationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid formation id"})
		return
	}

	if err := durationDispatcher(c).Dispatch(services.KindFormation, formationUUID, services.OpUpdate, map[string]string{
		"formation_id": formationUUID.String(),
		"reason":       "manual recompute",
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot dispatch recompute"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Recompute dispatched"})
}
