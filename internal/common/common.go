package common

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Context keys
	ContextUserIDKey    = "userID"    // authenticated user id (uuid.UUID)
	ContextUserRoleKey  = "userRole"  // role loaded from the users table
	ContextRequestIDKey = "requestId" // per-request correlation id

	RequestIDHeader = "X-Request-ID"
)

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID has unexpected type: %T", v)
	}
	return id, nil
}

// GetUserRoleFromContext returns the role set by the auth middleware, or "".
func GetUserRoleFromContext(c *gin.Context) string {
	return c.GetString(ContextUserRoleKey)
}

// ParseUUIDParam reads a path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: must be a UUID", name)
	}
	return id, nil
}
