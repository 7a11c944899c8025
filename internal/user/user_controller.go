package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/pkg/responses"
	"github.com/teamerhq/teamer/pkg/validator"
)

// UserController handles user-related HTTP requests
type UserController struct {
	repo UserRepository
}

func NewUserController(repo UserRepository) *UserController {
	return &UserController{repo: repo}
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} User
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /users [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.repo.List(c.Request.Context())
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} User
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Security Bearer
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	u, err := uc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateRole godoc
// @Summary Change your own role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body UpdateRoleRequest true "New role"
// @Success 200 {object} User
// @Failure 400 {object} responses.ErrorResponse "Invalid role"
// @Failure 403 {object} responses.ErrorResponse "Not your account"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Security Bearer
// @Router /users/{id}/role [patch]
func (uc *UserController) UpdateRole(c *gin.Context) {
	actorID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if id != actorID {
		responses.SendAppError(c, apperrors.Forbidden("you can only change your own role"))
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}
	u, err := uc.repo.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser godoc
// @Summary Delete your own account
// @Description Removes the user and their team memberships.
// @Tags Users
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} responses.ErrorResponse "Not your account"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 409 {object} responses.ErrorResponse "User still manages fields"
// @Security Bearer
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	actorID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if id != actorID {
		responses.SendAppError(c, apperrors.Forbidden("you can only delete your own account"))
		return
	}
	if err := uc.repo.Delete(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
