package field

import (
	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/pkg/rmiddleware"
)

// FieldRoutes mounts /fields. Reads are public; mutations need a token and
// ownership is checked in the service.
func FieldRoutes(router *gin.RouterGroup, fc *FieldController, authMiddleware gin.HandlerFunc) {
	fields := router.Group("/fields")
	fields.GET("", fc.ListFields)
	fields.GET("/:id", fc.GetField)
	fields.GET("/:id/schedule", fc.GetSchedule)

	authRoutes := fields.Group("")
	authRoutes.Use(authMiddleware)
	{
		authRoutes.POST("", rmiddleware.FieldManagerMiddleware(), fc.CreateField)
		authRoutes.PUT("/:id", fc.UpdateField)
		authRoutes.DELETE("/:id", fc.DeleteField)
		authRoutes.POST("/:id/schedule", fc.AddSchedule)
		authRoutes.DELETE("/:id/schedule/:scheduleId", fc.RemoveSchedule)
	}
}
