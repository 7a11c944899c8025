package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/auth"
	"github.com/teamerhq/teamer/internal/database"
	"github.com/teamerhq/teamer/internal/middleware"
	"github.com/teamerhq/teamer/internal/testutil"
	"github.com/teamerhq/teamer/internal/user"
	"github.com/teamerhq/teamer/pkg/token"
)

const secret = "test-secret"

func newService(t *testing.T) (*auth.Service, user.UserRepository) {
	db := testutil.NewDB(t, database.Models()...)
	users := user.NewUserRepository(db)
	return auth.NewService(users, secret, time.Hour), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, auth.RegisterRequest{Email: "Taras@Example.com", Password: "s3cret-pass", Name: "Taras"})
	require.NoError(t, err)
	assert.Equal(t, "taras@example.com", resp.User.Email)
	assert.Equal(t, user.RoleUser, resp.User.Role)

	claims, err := token.ValidateJWT(resp.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	stored, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)

	_, err = svc.Register(ctx, auth.RegisterRequest{Email: "taras@example.com", Password: "another-pass", Name: "Again"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	resp, err = svc.Login(ctx, auth.LoginRequest{Email: "TARAS@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "taras@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func newRouter(t *testing.T) (*gin.Engine, user.UserRepository) {
	svc, users := newService(t)
	r := gin.New()
	auth.RegisterAuthRoutes(r.Group("/api"), auth.NewAuthController(svc), middleware.AuthMiddleware(secret, users))
	return r, users
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthController(t *testing.T) {
	r, users := newRouter(t)

	rr := post(r, "/api/auth/register", `{"email":"maksym@example.com","password":"football!","name":"Maksym"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "passwordHash")

	var reg auth.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reg))

	assert.Equal(t, http.StatusConflict, post(r, "/api/auth/register", `{"email":"maksym@example.com","password":"football!","name":"M"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/auth/register", `{"email":"not-an-email","password":"short","name":""}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, "/api/auth/login", `{"email":"maksym@example.com","password":"nope-nope"}`).Code)
	assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", `{"email":"maksym@example.com","password":"football!"}`).Code)

	me := func(tok string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr = me(reg.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"maksym@example.com"`)

	assert.Equal(t, http.StatusUnauthorized, me("").Code)
	assert.Equal(t, http.StatusUnauthorized, me("garbage").Code)

	// A deleted account cannot keep using its token.
	require.NoError(t, users.Delete(context.Background(), reg.User.ID))
	assert.Equal(t, http.StatusUnauthorized, me(reg.Token).Code)
}
