package rmiddleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/user"
	"github.com/teamerhq/teamer/pkg/responses"
)

// RoleMiddleware must run after middleware.AuthMiddleware, which loads the
// user's current role into the context.
func RoleMiddleware(requiredRoles ...user.Role) gin.HandlerFunc {
	names := make([]string, len(requiredRoles))
	for i, r := range requiredRoles {
		names[i] = string(r)
	}

	return func(c *gin.Context) {
		if _, err := common.GetUserIDFromContext(c); err != nil {
			responses.Unauthorized(c, "Unauthorized: "+err.Error())
			return
		}

		userRole := common.GetUserRoleFromContext(c)
		for _, requiredRole := range names {
			if strings.EqualFold(userRole, requiredRole) {
				c.Next()
				return
			}
		}

		responses.Forbidden(c, "You don't have permission to access this resource, required role: "+strings.Join(names, " or "))
	}
}

// FieldManagerMiddleware is a convenience middleware for field-manager-only access.
func FieldManagerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RoleFieldManager)
}

// OrganizerOrManagerMiddleware allows game organizers and field managers.
func OrganizerOrManagerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(user.RoleGameOrganizer, user.RoleFieldManager)
}
