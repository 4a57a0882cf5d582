package assistant

import (
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, assistantService *AssistantService) {
	assistantController := &AssistantController{AssistantService: assistantService}

	assist := r.Group("/api/assistant")
	assist.Use(middlewares.AuthMiddleware())
	{
		assist.GET("/documents/:id/summary", assistantController.SummarizeLineage)
	}
}
