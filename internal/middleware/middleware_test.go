package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/metrics"
	"github.com/teamerhq/teamer/pkg/token"
)

const secret = "middleware-secret"

type fakeRoles map[uuid.UUID]string

func (f fakeRoles) RoleOf(_ context.Context, id uuid.UUID) (string, error) {
	if id == failingUser {
		return "", errors.New("connection reset")
	}
	role, ok := f[id]
	if !ok {
		return "", apperrors.NotFound("user")
	}
	return role, nil
}

var failingUser = uuid.New()

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	known := uuid.New()
	roles := fakeRoles{known: "field_manager"}

	r := gin.New()
	r.GET("/", AuthMiddleware(secret, roles), func(c *gin.Context) {
		id, err := common.GetUserIDFromContext(c)
		require.NoError(t, err)
		c.String(http.StatusOK, id.String()+" "+common.GetUserRoleFromContext(c))
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}
	sign := func(id uuid.UUID, role string, ttl time.Duration, key string) string {
		tok, err := token.GenerateJWT(id, role, key, ttl)
		require.NoError(t, err)
		return tok
	}

	// The role comes from the lookup, not the token.
	rr := call("Bearer " + sign(known, "user", time.Hour, secret))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, known.String()+" field_manager", rr.Body.String())

	assert.Equal(t, http.StatusOK, call("bearer "+sign(known, "", time.Hour, secret)).Code)

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(known, "", -time.Minute, secret)).Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(known, "", time.Hour, "other-secret")).Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(uuid.New(), "", time.Hour, secret)).Code)
	assert.Equal(t, http.StatusInternalServerError, call("Bearer "+sign(failingUser, "", time.Hour, secret)).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(common.ContextRequestIDKey)) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rr.Header().Get(common.RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(common.RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(common.RequestIDHeader))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewMock()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/games/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/games/1", "/games/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, 3, m.Requests())
}
