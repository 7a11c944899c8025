package team

import "github.com/gin-gonic/gin"

// TeamRoutes sets up all team-related routes
func TeamRoutes(router *gin.RouterGroup, tc *TeamController, authMiddleware gin.HandlerFunc) {
	// Public team routes
	router.GET("/teams", tc.GetAllTeams)
	router.GET("/teams/:id", tc.GetTeamByID)

	authRoutes := router.Group("/teams")
	authRoutes.Use(authMiddleware)
	{
		authRoutes.POST("", tc.CreateTeam)
		authRoutes.DELETE("/:id", tc.DeleteTeam) // creator check in handler
		authRoutes.POST("/:id/members", tc.AddTeamMember)
		authRoutes.DELETE("/:id/members/:userId", tc.RemoveTeamMember)
	}
}
