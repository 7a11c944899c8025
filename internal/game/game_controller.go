package game

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/pkg/responses"
	"github.com/teamerhq/teamer/pkg/validator"
)

// GameController handles game-related HTTP requests
type GameController struct {
	svc *Service
}

func NewGameController(svc *Service) *GameController {
	return &GameController{svc: svc}
}

// ListGames godoc
// @Summary List upcoming games
// @Description Scheduled games from today on, ordered by date and start time.
// @Tags Games
// @Produce json
// @Success 200 {array} GameView
// @Router /games [get]
func (gc *GameController) ListGames(c *gin.Context) {
	games, err := gc.svc.ListUpcoming(c.Request.Context())
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// SearchGames godoc
// @Summary Search games by city and date
// @Description Scheduled games on fields whose district matches city (case-insensitive) on the given day.
// @Tags Games
// @Produce json
// @Param city query string true "City or district"
// @Param date query string false "Day, YYYY-MM-DD or RFC 3339. Defaults to today."
// @Success 200 {array} GameView
// @Failure 400 {object} responses.ErrorResponse "Missing city or bad date"
// @Router /games/search [get]
func (gc *GameController) SearchGames(c *gin.Context) {
	var date *models.Date
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		d, err := models.ParseDate(raw, gc.svc.loc)
		if err != nil {
			responses.BadRequest(c, err.Error())
			return
		}
		date = &d
	}

	games, err := gc.svc.Search(c.Request.Context(), c.Query("city"), date)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame godoc
// @Summary Get a game
// @Tags Games
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} GameView
// @Failure 404 {object} responses.ErrorResponse "Game not found"
// @Router /games/{id} [get]
func (gc *GameController) GetGame(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	g, err := gc.svc.GetGame(c.Request.Context(), id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// CreateGame godoc
// @Summary Schedule a game
// @Description Books the field window when both start and end time are given.
// @Tags Games
// @Accept json
// @Produce json
// @Param game body CreateGameInput true "Game"
// @Success 201 {object} GameView
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Not an organizer or field manager"
// @Failure 409 {object} responses.ErrorResponse "Field window already booked"
// @Security Bearer
// @Router /games [post]
func (gc *GameController) CreateGame(c *gin.Context) {
	actorID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var in CreateGameInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	g, err := gc.svc.CreateGame(c.Request.Context(), actorID, in)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// UpdateGameStatus godoc
// @Summary Change a game's status
// @Description scheduled -> in_progress -> completed, or either of the first two -> cancelled. Completing requires a score.
// @Tags Games
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param body body UpdateStatusInput true "New status"
// @Success 200 {object} GameView
// @Failure 400 {object} responses.ErrorResponse "Illegal transition or score"
// @Failure 403 {object} responses.ErrorResponse "Not the game's organizer or field manager"
// @Failure 404 {object} responses.ErrorResponse "Game not found"
// @Security Bearer
// @Router /games/{id}/status [patch]
func (gc *GameController) UpdateGameStatus(c *gin.Context) {
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
	var in UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	g, err := gc.svc.UpdateStatus(c.Request.Context(), actorID, id, in)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteGame godoc
// @Summary Delete a game
// @Tags Games
// @Param id path string true "Game ID"
// @Success 204
// @Failure 403 {object} responses.ErrorResponse "Not the game's organizer or field manager"
// @Failure 404 {object} responses.ErrorResponse "Game not found"
// @Security Bearer
// @Router /games/{id} [delete]
func (gc *GameController) DeleteGame(c *gin.Context) {
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
	if err := gc.svc.DeleteGame(c.Request.Context(), actorID, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
