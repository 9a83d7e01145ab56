package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/petwhisperer/backend/internal/controllers"
	"github.com/petwhisperer/backend/internal/middleware"
	"github.com/petwhisperer/backend/internal/services"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, db *gorm.DB, agentsService *services.AgentsService) {
	analysisService := services.NewAnalysisService(db)
	chatService := services.NewChatService(db, agentsService)
	feedbackService := services.NewFeedbackService(db)
	tracker := services.NewLoadingTracker()

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	analysisController := controllers.NewAnalysisController(analysisService, agentsService, tracker)
	chatController := controllers.NewChatController(chatService)
	sosController := controllers.NewSOSController(agentsService)
	feedbackController := controllers.NewFeedbackController(feedbackService)
	uploadController := controllers.NewUploadController(os.Getenv("UPLOAD_DIR"))

	// Uploaded images are served statically; the agents service fetches them
	// by URL.
	r.Static("/uploads", "uploads")

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/refresh", authController.RefreshToken)

			users := protected.Group("/users")
			{
				users.GET("/me", userController.GetCurrentUser)
				users.PUT("/me", userController.UpdateCurrentUser)
			}

			protected.POST("/upload-image", uploadController.UploadImage)

			protected.POST("/analyze", analysisController.AnalyzeAnimal)
			protected.GET("/analyze/status", analysisController.GetAnalysisStatus)

			history := protected.Group("/history")
			{
				history.GET("", analysisController.GetHistory)
				history.GET("/:id", analysisController.GetAnalysis)
				history.DELETE("/:id", analysisController.DeleteAnalysis)
			}

			chat := protected.Group("/chat")
			{
				chat.POST("", chatController.SendMessage)
				chat.GET("/history/:analysisId", chatController.GetChatHistory)
				chat.GET("/sessions", chatController.GetChatSessions)
			}

			protected.POST("/sos", sosController.ActivateSOS)

			feedback := protected.Group("/feedback")
			{
				feedback.POST("", feedbackController.SubmitFeedback)
				feedback.GET("/:analysisId", feedbackController.GetFeedback)
			}
		}
	}
}
