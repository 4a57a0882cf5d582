package auth

import (
	"labvault-api/internal/logs"
	"labvault-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, authService AuthServicePort, logService *logs.LogService) {
	authController := &AuthController{AuthService: authService, LS: logService}

	public := r.Group("/api/auth")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/logout", authController.Logout)
	}

	protected := r.Group("/api/users")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/me", authController.Me)
		protected.GET("", authController.GetUsers)
		protected.PUT("/:id", authController.UpdateUser)
		protected.DELETE("/:id", authController.DeactivateUser)
	}
}
