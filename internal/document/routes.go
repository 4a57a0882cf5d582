package document

import (
	"labvault-api/internal/logs"
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, documentService DocumentServicePort, logService *logs.LogService) {
	documentController := &DocumentController{DocumentService: documentService, LogService: logService}

	docs := r.Group("/api/documents")
	docs.Use(middlewares.AuthMiddleware())
	{
		docs.POST("", documentController.Upload)
		docs.GET("", documentController.List)
		docs.GET("/:id", documentController.GetLatest)
		docs.GET("/:id/versions", documentController.ListVersions)
		docs.GET("/:id/versions/:version", documentController.GetVersion)
		docs.POST("/:id/versions", documentController.Branch)
		docs.POST("/:id/restore/:version", documentController.Restore)
		docs.GET("/:id/download", documentController.Download)
		docs.GET("/:id/preview", documentController.Preview)
		docs.DELETE("/:id", documentController.Delete)
	}
}
