package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
)

type QuestionnaireQuestionInput struct {
	Label     string   `json:"label" binding:"required"`
	Kind      string   `json:"kind"`
	SortOrder int      `json:"sort_order"`
	Choices   []string `json:"choices"`
}

type CreateQuestionnaireInput struct {
	Title       string                       `json:"title" binding:"required"`
	Description string                       `json:"description"`
	FormationID *uuid.UUID                   `json:"formation_id"`
	Questions   []QuestionnaireQuestionInput `json:"questions"`
}

// POST /admin/questionnaires
func CreateQuestionnaire(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateQuestionnaireInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Questionnaire title is required"})
		return
	}

	questionnaire := models.Questionnaire{
		Title:       input.Title,
		Description: input.Description,
		FormationID: input.FormationID,
		IsActive:    true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&questionnaire).Error; err != nil {
			return err
		}
		for i, q := range input.Questions {
			kind := q.Kind
			if kind == "" {
				kind = models.QuestionKindScale
			}
			sortOrder := q.SortOrder
			if sortOrder == 0 {
				sortOrder = i + 1
			}
			var choices datatypes.JSON
			if len(q.Choices) > 0 {
				raw, _ := json.Marshal(q.Choices)
				choices = datatypes.JSON(raw)
			}
			question := models.QuestionnaireQuestion{
				QuestionnaireID: questionnaire.ID,
				Label:           q.Label,
				Kind:            kind,
				SortOrder:       sortOrder,
				Choices:         choices,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create questionnaire"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Questionnaire created",
		"questionnaire_id": questionnaire.ID,
	})
}

// GET /admin/questionnaires
func GetQuestionnaires(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var questionnaires []models.Questionnaire
	query := db.Model(&models.Questionnaire{}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})

	if formationID := c.Query("formation_id"); formationID != "" {
		query = query.Where("formation_id = ?", formationID)
	}

	if err := query.Order("created_at DESC").Find(&questionnaires).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list questionnaires"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":          len(questionnaires),
		"questionnaires": questionnaires,
	})
}

// POST /public/questionnaires/:id/responses
// Records a response; the score is the average of the scale answers, mapped
// to a 0-100 range.
func SubmitQuestionnaireResponse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	questionnaireUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid questionnaire id"})
		return
	}

	var questionnaire models.Questionnaire
	err = db.Preload("Questions").First(&questionnaire, "id = ?", questionnaireUUID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Questionnaire not found"})
		return
	}
	if !questionnaire.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Questionnaire is closed"})
		return
	}

	var body struct {
		RespondentEmail string                 `json:"respondent_email"`
		Answers         map[string]interface{} `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answers are required"})
		return
	}

	// Average the scale answers (1..5) into a 0-100 score.
	scaleKinds := make(map[string]bool)
	for _, q := range questionnaire.Questions {
		if q.Kind == models.QuestionKindScale {
			scaleKinds[q.ID.String()] = true
		}
	}

	sum := 0.0
	n := 0
	for questionID, answer := range body.Answers {
		if !scaleKinds[questionID] {
			continue
		}
		if v, ok := answer.(float64); ok && v >= 1 && v <= 5 {
			sum += v
			n++
		}
	}
	score := 0.0
	if n > 0 {
		score = (sum / float64(n)) / 5.0 * 100.0
	}

	raw, _ := json.Marshal(body.Answers)
	response := models.QuestionnaireResponse{
		QuestionnaireID: questionnaire.ID,
		RespondentEmail: body.RespondentEmail,
		Answers:         datatypes.JSON(raw),
		Score:           score,
	}
	if err := db.Create(&response).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save response"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Response recorded",
		"response_id": response.ID,
		"score":       score,
	})
}

// GET /admin/questionnaires/:id/results
func GetQuestionnaireResults(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	questionnaireUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid questionnaire id"})
		return
	}

	var responses []models.QuestionnaireResponse
	if err := db.Where("questionnaire_id = ?", questionnaireUUID).
		Order("submitted_at DESC").
		Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot load responses"})
		return
	}

	avg := 0.0
	if len(responses) > 0 {
		for _, r := range responses {
			avg += r.Score
		}
		avg /= float64(len(responses))
	}

	c.JSON(http.StatusOK, gin.H{
		"questionnaire_id": questionnaireUUID,
		"total":            len(responses),
		"average_score":    avg,
		"responses":        responses,
	})
}

// PATCH /admin/questionnaires/:id/toggle-status
func ToggleQuestionnaireActive(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	questionnaireUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid questionnaire id"})
		return
	}

	var questionnaire models.Questionnaire
	if err := db.First(&questionnaire, "id = ?", questionnaireUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Questionnaire not found"})
		return
	}

	questionnaire.IsActive = !questionnaire.IsActive
	if err := db.Save(&questionnaire).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle questionnaire"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Questionnaire status toggled",
		"is_active": questionnaire.IsActive,
	})
}
