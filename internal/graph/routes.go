package graph

import (
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, graphService *GraphService) {
	graphController := &GraphController{GraphService: graphService}

	g := r.Group("/api/graph")
	g.Use(middlewares.AuthMiddleware())
	{
		g.POST("/links", graphController.Link)
		g.GET("/:type/:id/neighbors", graphController.Neighbors)
		g.DELETE("/:type/:id", graphController.Unlink)
	}
}
