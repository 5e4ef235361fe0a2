package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
)

type formationExportRow struct {
	Title         string
	Slug          string
	IsActive      bool
	ModuleCount   int
	StoredHours   int
	ComputedHours int
	UpdatedAt     time.Time
}

func collectFormationExportRows(c *gin.Context) ([]formationExportRow, error) {
	db := c.MustGet("db").(*gorm.DB)
	calc := durationCalc(c)
	store := durationStore(c)

	var formations []models.Formation
	query := db.Model(&models.Formation{})
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("title ASC").Find(&formations).Error; err != nil {
		return nil, err
	}

	rows := make([]formationExportRow, 0, len(formations))
	for i := range formations {
		f := &formations[i]
		// Reload with the active subtree so the computed column reflects
		// the current content, not the stored snapshot.
		loaded, err := store.Formation(f.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, formationExportRow{
			Title:         f.Title,
			Slug:          f.Slug,
			IsActive:      f.IsActive,
			ModuleCount:   len(loaded.Modules),
			StoredHours:   f.DurationHours,
			ComputedHours: calc.FormationDuration(loaded),
			UpdatedAt:     f.UpdatedAt,
		})
	}
	return rows, nil
}

var formationExportHeader = []string{
	"Title", "Slug", "Active", "Active modules", "Stored duration (h)", "Computed duration (h)", "Updated at",
}

// GET /admin/exports/formations.xlsx
func ExportFormationsXLSX(c *gin.Context) {
	rows, err := collectFormationExportRows(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot build export"})
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Formations"
	file.SetSheetName("Sheet1", sheet)
	for col, title := range formationExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, title)
	}
	for i, row := range rows {
		values := []interface{}{
			row.Title, row.Slug, row.IsActive, row.ModuleCount,
			row.StoredHours, row.ComputedHours, row.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("formations-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot write export"})
		return
	}
}

// GET /admin/exports/formations.csv
func ExportFormationsCSV(c *gin.Context) {
	rows, err := collectFormationExportRows(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot build export"})
		return
	}

	filename := fmt.Sprintf("formations-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "text/csv")

	w := csv.NewWriter(c.Writer)
	_ = w.Write(formationExportHeader)
	for _, row := range rows {
		_ = w.Write([]string{
			row.Title,
			row.Slug,
			strconv.FormatBool(row.IsActive),
			strconv.Itoa(row.ModuleCount),
			strconv.Itoa(row.StoredHours),
			strconv.Itoa(row.ComputedHours),
			row.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	w.Flush()
}
