package controllers

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
	"github.com/tlemaire/formation-backend/utils"
)

type CreateDocumentCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// POST /admin/document-categories
func CreateDocumentCategory(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateDocumentCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	var count int64
	db.Model(&models.DocumentCategory{}).Where("LOWER(name) = LOWER(?)", input.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A category with this name already exists"})
		return
	}

	category := models.DocumentCategory{
		Name:     input.Name,
		Slug:     slug.Make(input.Name),
		IsActive: true,
	}
	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created",
		"category": category,
	})
}

// GET /admin/document-categories
func GetDocumentCategories(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var categories []models.DocumentCategory
	if err := db.Preload("Templates").Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      len(categories),
		"categories": categories,
	})
}

// POST /admin/document-templates
// Multipart upload: stores the file in Supabase and extracts its text.
func UploadDocumentTemplate(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	var categoryID *uuid.UUID
	if categoryStr := c.PostForm("category_id"); categoryStr != "" {
		parsed, err := uuid.Parse(categoryStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
			return
		}
		var category models.DocumentCategory
		if err := db.First(&category, "id = ?", parsed).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		categoryID = &parsed
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" && ext != ".docx" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .pdf, .docx and .txt templates are supported"})
		return
	}

	fileID := uuid.New().String()
	publicURL, err := utils.UploadTemplateToSupabase(fileHeader, fileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	// Extraction failure keeps the upload; the text is a nice-to-have.
	var extracted string
	switch ext {
	case ".pdf":
		if file, err := fileHeader.Open(); err == nil {
			extracted, err = services.ExtractTextFromPDF(file)
			if err != nil {
				log.Println("PDF extraction failed:", err)
			}
			file.Close()
		}
	case ".docx":
		extracted, err = services.ExtractTextFromDOCX(fileHeader)
		if err != nil {
			log.Println("DOCX extraction failed:", err)
		}
	case ".txt":
		extracted, err = services.ExtractTextFromTXT(fileHeader)
		if err != nil {
			log.Println("TXT extraction failed:", err)
		}
	}

	template := models.DocumentTemplate{
		CategoryID:    categoryID,
		Name:          name,
		OriginalName:  fileHeader.Filename,
		FilePath:      publicURL,
		FileType:      strings.TrimPrefix(ext, "."),
		FileSize:      fileHeader.Size,
		ExtractedText: extracted,
	}
	if err := db.Create(&template).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save template"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Template uploaded",
		"template": template,
	})
}

// GET /admin/document-templates
func GetDocumentTemplates(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var templates []models.DocumentTemplate
	query := db.Model(&models.DocumentTemplate{}).Preload("Category")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("(name ILIKE ? OR extracted_text ILIKE ?)", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Order("created_at DESC").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(templates),
		"templates": templates,
	})
}

// GET /admin/document-templates/:id
func GetDocumentTemplateDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return
	}

	var template models.DocumentTemplate
	if err := db.Preload("Category").First(&template, "id = ?", templateUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// DELETE /admin/document-templates/:id
func DeleteDocumentTemplate(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return
	}

	var template models.DocumentTemplate
	if err := db.First(&template, "id = ?", templateUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	if err := utils.DeleteFileFromSupabase(template.FilePath); err != nil {
		log.Println("Supabase delete failed:", err)
	}

	if err := db.Delete(&template).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}
