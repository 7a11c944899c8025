package auth

import "github.com/gin-gonic/gin"

func RegisterAuthRoutes(router *gin.RouterGroup, ac *AuthController, authMiddleware gin.HandlerFunc) {
	// Public routes
	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", ac.Register)
		authPublic.POST("/login", ac.Login)
	}

	// Authenticated routes
	authProtected := router.Group("/auth")
	authProtected.Use(authMiddleware)
	{
		authProtected.GET("/me", ac.GetProfile)
	}
}
