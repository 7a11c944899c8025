package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/pkg/responses"
	"github.com/teamerhq/teamer/pkg/validator"
)

type AuthController struct {
	svc *Service
}

func NewAuthController(svc *Service) *AuthController {
	return &AuthController{svc: svc}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Credentials"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 409 {object} responses.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}
	resp, err := ac.svc.Register(c.Request.Context(), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} responses.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}
	resp, err := ac.svc.Login(c.Request.Context(), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} user.User
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	u, err := ac.svc.Me(c.Request.Context(), userID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
