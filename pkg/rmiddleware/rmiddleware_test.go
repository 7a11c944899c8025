package rmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/user"
)

func serve(role string, authenticated bool, mw gin.HandlerFunc) int {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if authenticated {
			c.Set(common.ContextUserIDKey, uuid.New())
			c.Set(common.ContextUserRoleKey, role)
		}
		c.Next()
	}, mw, func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr.Code
}

func TestRoleMiddleware(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve("field_manager", true, FieldManagerMiddleware()))
	assert.Equal(t, http.StatusForbidden, serve("user", true, FieldManagerMiddleware()))
	assert.Equal(t, http.StatusOK, serve("game_organizer", true, OrganizerOrManagerMiddleware()))
	assert.Equal(t, http.StatusOK, serve("field_manager", true, OrganizerOrManagerMiddleware()))
	assert.Equal(t, http.StatusForbidden, serve("user", true, RoleMiddleware(user.RoleGameOrganizer)))
	assert.Equal(t, http.StatusUnauthorized, serve("", false, FieldManagerMiddleware()))
}
