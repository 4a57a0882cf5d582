package sample

import (
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, sampleService *SampleService) {
	sampleController := &SampleController{SampleService: sampleService}

	samples := r.Group("/api/samples")
	samples.Use(middlewares.AuthMiddleware())
	{
		samples.POST("", sampleController.CreateSample)
		samples.GET("", sampleController.GetSamples)
		samples.GET("/:id", sampleController.GetSample)
		samples.GET("/:id/derived", sampleController.GetDerivedSamples)
		samples.PUT("/:id", sampleController.UpdateSample)
		samples.DELETE("/:id", sampleController.DeleteSample)
	}
}
