package app

import (
	"examgrade_backend/docs"
	"examgrade_backend/internal/config"
	"examgrade_backend/internal/middleware"
	"examgrade_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	router.GET("/health", c.health.HealthCheck)
	router.POST("/register", c.auth.Register)
	router.POST("/login", c.auth.Login)

	// Authenticated routes (any role)
	authGroup := router.Group("/")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/tests", c.test.GetTests)
		authGroup.GET("/questions/:test_id", c.question.GetQuestions)
		authGroup.POST("/submit_answer", c.answer.SubmitAnswer)
		authGroup.GET("/grades", c.answer.GetGrades)

		// Lecturer-only routes
		lecturerGroup := authGroup.Group("/")
		lecturerGroup.Use(middleware.RequireLecturer())
		{
			lecturerGroup.POST("/create_test", c.test.CreateTest)
			lecturerGroup.POST("/add_question", c.question.AddQuestion)
			lecturerGroup.POST("/grade_answer", c.answer.GradeAnswer)
		}
	}
}
