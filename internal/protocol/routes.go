package protocol

import (
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, protocolService *ProtocolService) {
	protocolController := &ProtocolController{ProtocolService: protocolService}

	protocols := r.Group("/api/protocols")
	protocols.Use(middlewares.AuthMiddleware())
	{
		protocols.POST("", protocolController.CreateProtocol)
		protocols.GET("", protocolController.GetProtocols)
		protocols.GET("/:id", protocolController.GetProtocol)
		protocols.GET("/:id/revisions", protocolController.GetRevisions)
		protocols.PUT("/:id", protocolController.UpdateProtocol)
		protocols.DELETE("/:id", protocolController.DeleteProtocol)
	}
}
