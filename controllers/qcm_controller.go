package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
	"github.com/tlemaire/formation-backend/services"
)

type CreateQCMInput struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	TimeLimitMinutes *int   `json:"time_limit_minutes"`
}

type UpdateQCMInput struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
}

// POST /admin/courses/:id/qcms
func CreateQCM(c *gin.Context) {
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

	var input CreateQCMInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "QCM title is required"})
		return
	}

	qcm := models.QCM{
		CourseID:         course.ID,
		Title:            input.Title,
		Description:      input.Description,
		TimeLimitMinutes: input.TimeLimitMinutes,
		IsActive:         true,
	}

	if err := db.Create(&qcm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create QCM"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindQCM, qcm.ID, services.OpCreate, nil)

	c.JSON(http.StatusCreated, gin.H{
		"message": "QCM created",
		"qcm":     qcm,
	})
}

// GET /admin/qcms/:id
func GetQCMDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	qcmUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QCM id"})
		return
	}

	var qcm models.QCM
	err = db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Questions.Options").
		First(&qcm, "id = ?", qcmUUID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QCM not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qcm": qcm})
}

// PUT /admin/qcms/:id
func UpdateQCM(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	qcmUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QCM id"})
		return
	}

	var qcm models.QCM
	if err := db.First(&qcm, "id = ?", qcmUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QCM not found"})
		return
	}

	var input UpdateQCMInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	timeLimitChanged := false
	if input.Title != nil {
		qcm.Title = *input.Title
	}
	if input.Description != nil {
		qcm.Description = *input.Description
	}
	if input.TimeLimitMinutes != nil {
		qcm.TimeLimitMinutes = input.TimeLimitMinutes
		timeLimitChanged = true
	}

	if err := db.Save(&qcm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot update QCM"})
		return
	}

	if timeLimitChanged {
		durationDispatcher(c).Dispatch(services.KindQCM, qcm.ID, services.OpUpdate, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "QCM updated",
		"qcm":     qcm,
	})
}

// PATCH /admin/qcms/:id/toggle-status
func ToggleQCMActive(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	qcmUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QCM id"})
		return
	}

	var qcm models.QCM
	if err := db.First(&qcm, "id = ?", qcmUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QCM not found"})
		return
	}

	qcm.IsActive = !qcm.IsActive
	if err := db.Save(&qcm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot toggle QCM"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindQCM, qcm.ID, services.OpToggle, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":   "QCM status toggled",
		"is_active": qcm.IsActive,
	})
}

// DELETE /admin/qcms/:id
func DeleteQCM(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	qcmUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QCM id"})
		return
	}

	var qcm models.QCM
	if err := db.First(&qcm, "id = ?", qcmUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QCM not found"})
		return
	}

	if err := db.Delete(&qcm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete QCM"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindCourse, qcm.CourseID, services.OpDelete, nil)

	c.JSON(http.StatusOK, gin.H{"message": "QCM deleted"})
}

// splitTextIntoChunks cuts text on paragraph boundaries so each Gemini prompt
// stays under maxLen characters.
func splitTextIntoChunks(text string, maxLen int) []string {
	paragraphs := strings.Split(text, "\n")
	var chunks []string
	var current strings.Builder

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len()+len(p)+1 > maxLen && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// POST /admin/courses/:id/qcms/generate
// Builds a QCM from the course content with Gemini.
func GenerateQCMFromCourse(c *gin.Context) {
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

	text := strings.TrimSpace(course.Content)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course has no content to generate from"})
		return
	}

	chunks := splitTextIntoChunks(text, 2000)
	if len(chunks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No usable content"})
		return
	}

	var body struct {
		Title            string `json:"title"`
		TimeLimitMinutes *int   `json:"time_limit_minutes"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Title == "" {
		body.Title = "Knowledge check: " + course.Title
	}

	qcm := models.QCM{
		CourseID:         course.ID,
		Title:            body.Title,
		Description:      "Multiple-choice questions generated from the course content",
		TimeLimitMinutes: body.TimeLimitMinutes,
		IsActive:         true,
	}
	if err := db.Create(&qcm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot create QCM"})
		return
	}

	retryGemini := func(prompt string, retries int) (string, error) {
		var resp string
		var err error
		for i := 0; i < retries; i++ {
			resp, err = services.GeminiGenerateText(prompt)
			if err == nil {
				return resp, nil
			}
			time.Sleep(time.Duration(i+1) * time.Second)
		}
		return "", err
	}

	allQuestions := []models.QCMQuestion{}
	const maxQuestions = 30

	for idx, chunk := range chunks {
		if len(allQuestions) >= maxQuestions {
			break
		}

		prompt := fmt.Sprintf(`
You write multiple-choice questions for professional training courses.
Create 1 to 3 questions from the course excerpt below.

Rules:
- Each question has 4 options (A, B, C, D).
- Randomize the position of the correct option.
- Mark "is_correct": true for the right option and false for the others.
- Each question has a "hint" (1-2 sentences that guide without revealing the answer).

Return valid JSON exactly in this shape:
[
  {
    "question": "The question?",
    "difficulty": "easy|medium|hard",
    "hint": "A hint about the question.",
    "options": [
      {"text": "Option A", "is_correct": true/false},
      {"text": "Option B", "is_correct": true/false},
      {"text": "Option C", "is_correct": true/false},
      {"text": "Option D", "is_correct": true/false}
    ]
  }
]

Return only valid JSON, no other text.

Excerpt %d:
%s
`, idx+1, chunk)

		rawResp, err := retryGemini(prompt, 3)
		if err != nil {
			fmt.Printf("Gemini failed on chunk %d: %v\n", idx+1, err)
			continue
		}

		// Strip the markdown fences Gemini likes to add
		clean := strings.TrimSpace(rawResp)
		clean = strings.Trim(clean, "`")
		clean = strings.TrimPrefix(clean, "json")
		clean = strings.TrimSpace(clean)

		type Option struct {
			Text      string `json:"text"`
			IsCorrect bool   `json:"is_correct"`
		}
		type QA struct {
			Question   string   `json:"question"`
			Difficulty string   `json:"difficulty"`
			Hint       string   `json:"hint"`
			Options    []Option `json:"options"`
		}

		var arr []QA
		if err := json.Unmarshal([]byte(clean), &arr); err != nil {
			fmt.Printf("JSON parse failed on chunk %d: %v\n", idx+1, err)
			continue
		}

		for _, qa := range arr {
			if qa.Question == "" || len(qa.Options) < 4 {
				continue
			}
			if len(allQuestions) >= maxQuestions {
				break
			}

			q := models.QCMQuestion{
				QCMID:      qcm.ID,
				Question:   qa.Question,
				Difficulty: qa.Difficulty,
				Hint:       qa.Hint,
			}

			if err := db.Create(&q).Error; err != nil {
				fmt.Printf("cannot create QCM question: %v\n", err)
				continue
			}

			for _, opt := range qa.Options {
				o := models.QCMOption{
					QuestionID: q.ID,
					OptionText: opt.Text,
					IsCorrect:  opt.IsCorrect,
				}
				db.Create(&o)
			}

			allQuestions = append(allQuestions, q)
		}
	}

	if len(allQuestions) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini produced no usable questions"})
		return
	}

	durationDispatcher(c).Dispatch(services.KindQCM, qcm.ID, services.OpCreate, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("QCM generated (%d questions)", len(allQuestions)),
		"qcm_id":    qcm.ID,
		"total":     len(allQuestions),
		"chunks":    len(chunks),
		"questions": allQuestions,
	})
}

type QCMAnswerInput struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"option_id"`
}

// POST /public/qcms/:id/attempts
func SubmitQCMAttempt(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	qcmUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QCM id"})
		return
	}

	var body struct {
		StudentID   uuid.UUID        `json:"student_id" binding:"required"`
		Answers     []QCMAnswerInput `json:"answers"`
		DurationSec int              `json:"duration_sec"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if len(body.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No answers submitted"})
		return
	}

	var qcm models.QCM
	if err := db.First(&qcm, "id = ?", qcmUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QCM not found"})
		return
	}

	var questionIDs []uuid.UUID
	for _, ans := range body.Answers {
		questionIDs = append(questionIDs, ans.QuestionID)
	}

	// Every answered question must belong to this QCM.
	var count int64
	if err := db.Model(&models.QCMQuestion{}).
		Where("id IN ?", questionIDs).
		Where("qcm_id = ?", qcmUUID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot verify questions"})
		return
	}
	if int(count) != len(questionIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Some questions do not belong to this QCM"})
		return
	}

	var correctOptions []models.QCMOption
	if err := db.Where("question_id IN ?", questionIDs).
		Where("is_correct = ?", true).
		Find(&correctOptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot load correct options"})
		return
	}

	correctMap := make(map[uuid.UUID]uuid.UUID)
	for _, o := range correctOptions {
		correctMap[o.QuestionID] = o.ID
	}

	correctCount := 0
	total := len(body.Answers)
	for _, ans := range body.Answers {
		if ans.SelectedOptionID != nil && *ans.SelectedOptionID == correctMap[ans.QuestionID] {
			correctCount++
		}
	}

	score := 0.0
	if total > 0 {
		score = (float64(correctCount) / float64(total)) * 20.0
	}

	attempt := models.QCMAttempt{
		QCMID:          qcmUUID,
		StudentID:      body.StudentID,
		Score:          score,
		CorrectCount:   correctCount,
		IncorrectCount: total - correctCount,
		DurationSec:    body.DurationSec,
	}
	if err := db.Create(&attempt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save attempt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Attempt recorded",
		"attempt_id":    attempt.ID,
		"total":         total,
		"correct_count": correctCount,
		"score":         score,
	})
}
