package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/controllers"
	"github.com/tlemaire/formation-backend/middleware"
	"github.com/tlemaire/formation-backend/services"
	"github.com/tlemaire/formation-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, dispatcher *services.DurationUpdateDispatcher, calc *services.DurationCalculationService, store services.DurationStore) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", middleware.DBMiddleware(db), controllers.HealthCheck)

	api := r.Group("/api")

	// Endpoints reachable by prospects and trainees, no back-office session.
	public := api.Group("/public")
	{
		public.Use(middleware.DBMiddleware(db))

		public.POST("/needs-analysis", controllers.CreateNeedsAnalysis)
		public.POST("/needs-analysis/:id/submit", controllers.SubmitNeedsAnalysis)

		public.POST("/questionnaires/:id/responses", controllers.SubmitQuestionnaireResponse)
		public.POST("/qcms/:id/attempts", controllers.SubmitQCMAttempt)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.DBMiddleware(db), middleware.DurationMiddleware(dispatcher, calc, store))

		// Formation catalog
		admin.POST("/formations", controllers.CreateFormation)
		admin.GET("/formations", controllers.GetFormations)
		admin.GET("/formations/:id", controllers.GetFormationDetail)
		admin.PUT("/formations/:id", controllers.UpdateFormation)
		admin.PATCH("/formations/:id/toggle-status", controllers.ToggleFormationActive)
		admin.DELETE("/formations/:id", controllers.DeleteFormation)
		admin.GET("/formations/:id/duration", controllers.GetFormationDuration)
		admin.POST("/formations/:id/duration/recompute", controllers.RecomputeFormationDuration)

		// Modules
		admin.POST("/formations/:id/modules", controllers.CreateModule)
		admin.GET("/modules/:id", controllers.GetModuleDetail)
		admin.PUT("/modules/:id", controllers.UpdateModule)
		admin.PATCH("/modules/:id/toggle-status", controllers.ToggleModuleActive)
		admin.DELETE("/modules/:id", controllers.DeleteModule)

		// Chapters
		admin.POST("/modules/:id/chapters", controllers.CreateChapter)
		admin.GET("/chapters/:id", controllers.GetChapterDetail)
		admin.PUT("/chapters/:id", controllers.UpdateChapter)
		admin.PATCH("/chapters/:id/toggle-status", controllers.ToggleChapterActive)
		admin.DELETE("/chapters/:id", controllers.DeleteChapter)

		// Courses
		admin.POST("/chapters/:id/courses", controllers.CreateCourse)
		admin.GET("/courses/:id", controllers.GetCourseDetail)
		admin.PUT("/courses/:id", controllers.UpdateCourse)
		admin.PATCH("/courses/:id/toggle-status", controllers.ToggleCourseActive)
		admin.DELETE("/courses/:id", controllers.DeleteCourse)

		// Exercises
		admin.POST("/courses/:id/exercises", controllers.CreateExercise)
		admin.GET("/courses/:id/exercises", controllers.GetExercisesByCourse)
		admin.PUT("/exercises/:id", controllers.UpdateExercise)
		admin.PATCH("/exercises/:id/toggle-status", controllers.ToggleExerciseActive)
		admin.DELETE("/exercises/:id", controllers.DeleteExercise)

		// QCMs
		admin.POST("/courses/:id/qcms", controllers.CreateQCM)
		admin.POST("/courses/:id/qcms/generate", controllers.GenerateQCMFromCourse)
		admin.GET("/qcms/:id", controllers.GetQCMDetail)
		admin.PUT("/qcms/:id", controllers.UpdateQCM)
		admin.PATCH("/qcms/:id/toggle-status", controllers.ToggleQCMActive)
		admin.DELETE("/qcms/:id", controllers.DeleteQCM)

		// Satisfaction questionnaires
		admin.POST("/questionnaires", controllers.CreateQuestionnaire)
		admin.GET("/questionnaires", controllers.GetQuestionnaires)
		admin.GET("/questionnaires/:id/results", controllers.GetQuestionnaireResults)
		admin.PATCH("/questionnaires/:id/toggle-status", controllers.ToggleQuestionnaireActive)

		// Needs analysis back-office
		admin.GET("/needs-analysis", controllers.GetNeedsAnalysisRequests)
		admin.PATCH("/needs-analysis/:id/status", controllers.UpdateNeedsAnalysisStatus)
		admin.POST("/needs-analysis/:id/convert", controllers.ConvertNeedsAnalysis)

		// Document templates
		admin.POST("/document-categories", controllers.CreateDocumentCategory)
		admin.GET("/document-categories", controllers.GetDocumentCategories)
		admin.POST("/document-templates", controllers.UploadDocumentTemplate)
		admin.GET("/document-templates", controllers.GetDocumentTemplates)
		admin.GET("/document-templates/:id", controllers.GetDocumentTemplateDetail)
		admin.DELETE("/document-templates/:id", controllers.DeleteDocumentTemplate)

		// Mentoring
		admin.POST("/mentors", controllers.CreateMentor)
		admin.GET("/mentors", controllers.GetMentors)
		admin.POST("/students", controllers.CreateStudent)
		admin.GET("/students", controllers.GetStudents)
		admin.POST("/mentor-assignments", controllers.CreateMentorAssignment)
		admin.GET("/mentor-assignments", controllers.GetMentorAssignments)
		admin.PATCH("/mentor-assignments/:id/close", controllers.CloseMentorAssignment)

		// Exports
		admin.GET("/exports/formations.xlsx", controllers.ExportFormationsXLSX)
		admin.GET("/exports/formations.csv", controllers.ExportFormationsCSV)
	}

	r.GET("/ws/formations/:id/durations", ws.HandleFormationDurationWebSocket)
	r.GET("/ws/durations", ws.HandleDurationWebSocket)

	return r
}
