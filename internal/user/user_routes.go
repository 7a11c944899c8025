package user

import "github.com/gin-gonic/gin"

// UserRoutes mounts /users. Every route requires authentication.
func UserRoutes(router *gin.RouterGroup, uc *UserController, authMiddleware gin.HandlerFunc) {
	users := router.Group("/users")
	users.Use(authMiddleware)
	{
		users.GET("", uc.ListUsers)
		users.GET("/:id", uc.GetUser)
		users.PATCH("/:id/role", uc.UpdateRole)
		users.DELETE("/:id", uc.DeleteUser)
	}
}
