package experiment

import (
	"labvault-api/internal/logs"
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, experimentService *ExperimentService, logService *logs.LogService) {
	experimentController := &ExperimentController{ExperimentService: experimentService, LogService: logService}

	experiments := r.Group("/api/experiments")
	experiments.Use(middlewares.AuthMiddleware())
	{
		experiments.POST("", experimentController.CreateExperiment)
		experiments.GET("", experimentController.GetExperiments)
		experiments.GET("/:id", experimentController.GetExperiment)
		experiments.PUT("/:id", experimentController.UpdateExperiment)
		experiments.DELETE("/:id", experimentController.DeleteExperiment)
	}
}
