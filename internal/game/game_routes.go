package game

import (
	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/pkg/rmiddleware"
)

func GameRoutes(router *gin.RouterGroup, gc *GameController, authMiddleware gin.HandlerFunc) {
	games := router.Group("/games")
	games.GET("", gc.ListGames)
	games.GET("/search", gc.SearchGames)
	games.GET("/:id", gc.GetGame)

	authRoutes := games.Group("")
	authRoutes.Use(authMiddleware)
	{
		authRoutes.POST("", rmiddleware.OrganizerOrManagerMiddleware(), gc.CreateGame)
		authRoutes.PATCH("/:id/status", rmiddleware.OrganizerOrManagerMiddleware(), gc.UpdateGameStatus)
		authRoutes.DELETE("/:id", rmiddleware.OrganizerOrManagerMiddleware(), gc.DeleteGame)
	}
}
