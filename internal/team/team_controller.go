package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/user"
	"github.com/teamerhq/teamer/pkg/responses"
	"github.com/teamerhq/teamer/pkg/validator"
)

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo  TeamRepository
	users user.UserRepository
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository, users user.UserRepository) *TeamController {
	return &TeamController{repo: repo, users: users}
}

// GetAllTeams godoc
// @Summary Get all teams
// @Description Lists teams with their members.
// @Tags Teams
// @Produce json
// @Success 200 {array} Team
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	teams, err := tc.repo.List(c.Request.Context())
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeamByID godoc
// @Summary Get a team by its ID
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} Team
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Router /teams/{id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	t, err := tc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTeam godoc
// @Summary Create a new team
// @Description Creates a team with the authenticated user as its first admin member.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team Creation Data"
// @Success 201 {object} Team
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	t := Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	err = tc.repo.WithTransaction(c.Request.Context(), func(repo TeamRepository) error {
		if err := repo.Create(c.Request.Context(), &t); err != nil {
			return err
		}
		return repo.AddMember(c.Request.Context(), &TeamMember{
			TeamID: t.ID,
			UserID: userID,
			Role:   MemberRoleAdmin,
		})
	})
	if err != nil {
		responses.SendAppError(c, err)
		return
	}

	created, err := tc.repo.GetByID(c.Request.Context(), t.ID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Only the team's creator can delete it. Memberships are removed with it.
// @Tags Teams
// @Param id path string true "Team ID"
// @Success 204
// @Failure 403 {object} responses.ErrorResponse "Not the creator"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 409 {object} responses.ErrorResponse "Team has games"
// @Security Bearer
// @Router /teams/{id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	t, err := tc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	if t.CreatedBy != userID {
		responses.SendAppError(c, apperrors.Forbidden("only the team's creator can delete it"))
		return
	}
	if err := tc.repo.Delete(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddTeamMember godoc
// @Summary Add a member to a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param member body AddMemberRequest true "Member"
// @Success 201 {object} TeamMember
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 404 {object} responses.ErrorResponse "Team or user not found"
// @Failure 409 {object} responses.ErrorResponse "Already a member"
// @Security Bearer
// @Router /teams/{id}/members [post]
func (tc *TeamController) AddTeamMember(c *gin.Context) {
	teamID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := tc.repo.GetByID(ctx, teamID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	if _, err := tc.users.GetByID(ctx, req.UserID); err != nil {
		responses.SendAppError(c, err)
		return
	}

	m := &TeamMember{TeamID: teamID, UserID: req.UserID, Role: req.Role}
	if err := tc.repo.AddMember(ctx, m); err != nil {
		responses.SendAppError(c, err)
		return
	}
	created, err := tc.repo.GetMember(ctx, teamID, req.UserID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// RemoveTeamMember godoc
// @Summary Remove a member from a team
// @Tags Teams
// @Param id path string true "Team ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 404 {object} responses.ErrorResponse "Member not found"
// @Security Bearer
// @Router /teams/{id}/members/{userId} [delete]
func (tc *TeamController) RemoveTeamMember(c *gin.Context) {
	teamID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	userID, err := common.ParseUUIDParam(c, "userId")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
