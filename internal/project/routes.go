package project

import (
	"labvault-api/internal/logs"
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, projectService *ProjectService, logService *logs.LogService) {
	projectController := &ProjectController{ProjectService: projectService, LogService: logService}

	projects := r.Group("/api/projects")
	projects.Use(middlewares.AuthMiddleware())
	{
		projects.POST("", projectController.CreateProject)
		projects.GET("", projectController.GetProjects)
		projects.GET("/:id", projectController.GetProject)
		projects.PUT("/:id", projectController.UpdateProject)
		projects.DELETE("/:id", projectController.DeleteProject)
	}
}
