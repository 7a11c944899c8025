package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/pkg/responses"
	"github.com/teamerhq/teamer/pkg/token"
)

// RoleLookup resolves the current role of a user. The users table is the
// source of truth, so a role change takes effect without a new token.
type RoleLookup interface {
	RoleOf(ctx context.Context, id uuid.UUID) (string, error)
}

func AuthMiddleware(jwtSecret string, users RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Unauthorized(c, "Authorization header is required")
			return
		}

		bearerToken := strings.Fields(authHeader)
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "bearer") {
			responses.Unauthorized(c, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			responses.Unauthorized(c, "Invalid or expired token: "+err.Error())
			return
		}

		role, err := users.RoleOf(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				responses.Unauthorized(c, "User not found")
				return
			}
			log.Error().Err(err).Str("userId", claims.UserID.String()).Msg("auth: role lookup failed")
			responses.SendAppError(c, err)
			return
		}

		c.Set(common.ContextUserIDKey, claims.UserID)
		c.Set(common.ContextUserRoleKey, role)
		c.Next()
	}
}
