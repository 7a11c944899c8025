package field

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/pkg/responses"
	"github.com/teamerhq/teamer/pkg/validator"
)

// FieldController handles field-related HTTP requests
type FieldController struct {
	svc *Service
	loc *time.Location
}

// NewFieldController creates a new field controller. Query dates given as
// timestamps are converted to loc before the date is taken.
func NewFieldController(svc *Service, loc *time.Location) *FieldController {
	if loc == nil {
		loc = time.Local
	}
	return &FieldController{svc: svc, loc: loc}
}

// ListFields godoc
// @Summary List fields
// @Description Lists fields in creation order. Optional filters by manager and district.
// @Tags Fields
// @Produce json
// @Param managerId query string false "Manager user ID"
// @Param district query string false "District, case-insensitive"
// @Param include query string false "Comma separated: schedules, manager"
// @Success 200 {array} FieldView
// @Failure 400 {object} responses.ErrorResponse "Invalid query"
// @Router /fields [get]
func (fc *FieldController) ListFields(c *gin.Context) {
	var filter Filter
	if raw := c.Query("managerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.BadRequest(c, "invalid managerId: must be a UUID")
			return
		}
		filter.ManagerID = &id
	}
	filter.District = strings.TrimSpace(c.Query("district"))
	for _, inc := range strings.Split(c.Query("include"), ",") {
		switch strings.TrimSpace(inc) {
		case "schedules":
			filter.WithSchedules = true
		case "manager":
			filter.WithManager = true
		}
	}

	fields, err := fc.svc.ListFields(c.Request.Context(), filter)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// GetField godoc
// @Summary Get a field
// @Description Returns the field with its schedule rows and manager summary.
// @Tags Fields
// @Produce json
// @Param id path string true "Field ID"
// @Success 200 {object} FieldView
// @Failure 404 {object} responses.ErrorResponse "Field not found"
// @Router /fields/{id} [get]
func (fc *FieldController) GetField(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	f, err := fc.svc.GetField(c.Request.Context(), id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// GetSchedule godoc
// @Summary Resolve a field's availability
// @Description One slot per exact window. Booked and maintenance rows win over available ones; active games without a row are reported as booked.
// @Tags Fields
// @Produce json
// @Param id path string true "Field ID"
// @Param startDate query string false "Inclusive lower bound, YYYY-MM-DD or RFC 3339"
// @Param endDate query string false "Inclusive upper bound, YYYY-MM-DD or RFC 3339"
// @Success 200 {array} Slot
// @Failure 400 {object} responses.ErrorResponse "Invalid date range"
// @Failure 404 {object} responses.ErrorResponse "Field not found"
// @Router /fields/{id}/schedule [get]
func (fc *FieldController) GetSchedule(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	var dr DateRange
	if dr.From, err = fc.optionalDate(c, "startDate"); err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if dr.To, err = fc.optionalDate(c, "endDate"); err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	slots, err := fc.svc.ResolveAvailability(c.Request.Context(), id, dr)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// CreateField godoc
// @Summary Create a field
// @Description The manager defaults to the caller. The manager must have the field_manager role.
// @Tags Fields
// @Accept json
// @Produce json
// @Param field body FieldInput true "Field"
// @Success 201 {object} FieldView
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Manager is not a field manager"
// @Security Bearer
// @Router /fields [post]
func (fc *FieldController) CreateField(c *gin.Context) {
	actorID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var in FieldInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	f, err := fc.svc.CreateField(c.Request.Context(), actorID, in)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// UpdateField godoc
// @Summary Update a field
// @Description Only the field's manager may update it. Setting managerId transfers the field.
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Param field body FieldInput true "Field"
// @Success 200 {object} FieldView
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Not the manager"
// @Failure 404 {object} responses.ErrorResponse "Field not found"
// @Security Bearer
// @Router /fields/{id} [put]
func (fc *FieldController) UpdateField(c *gin.Context) {
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
	var in FieldInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	f, err := fc.svc.UpdateField(c.Request.Context(), actorID, id, in)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// DeleteField godoc
// @Summary Delete a field
// @Tags Fields
// @Param id path string true "Field ID"
// @Success 204
// @Failure 403 {object} responses.ErrorResponse "Not the manager"
// @Failure 404 {object} responses.ErrorResponse "Field not found"
// @Failure 409 {object} responses.ErrorResponse "Field has games"
// @Security Bearer
// @Router /fields/{id} [delete]
func (fc *FieldController) DeleteField(c *gin.Context) {
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
	if err := fc.svc.DeleteField(c.Request.Context(), actorID, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSchedule godoc
// @Summary Add a schedule window
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Param schedule body ScheduleInput true "Schedule window"
// @Success 201 {object} FieldSchedule
// @Failure 400 {object} responses.ErrorResponse "Invalid window"
// @Failure 403 {object} responses.ErrorResponse "Not the manager"
// @Failure 404 {object} responses.ErrorResponse "Field not found"
// @Failure 409 {object} responses.ErrorResponse "Window overlaps a booking"
// @Security Bearer
// @Router /fields/{id}/schedule [post]
func (fc *FieldController) AddSchedule(c *gin.Context) {
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
	var in ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.SendValidationError(c, validator.ParseError(err))
		return
	}

	row, err := fc.svc.AddSchedule(c.Request.Context(), actorID, id, in)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// RemoveSchedule godoc
// @Summary Remove a schedule window
// @Tags Fields
// @Param id path string true "Field ID"
// @Param scheduleId path string true "Schedule ID"
// @Success 204
// @Failure 403 {object} responses.ErrorResponse "Not the manager"
// @Failure 404 {object} responses.ErrorResponse "Field or schedule not found"
// @Security Bearer
// @Router /fields/{id}/schedule/{scheduleId} [delete]
func (fc *FieldController) RemoveSchedule(c *gin.Context) {
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
	scheduleID, err := common.ParseUUIDParam(c, "scheduleId")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := fc.svc.RemoveSchedule(c.Request.Context(), actorID, id, scheduleID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (fc *FieldController) optionalDate(c *gin.Context, name string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw, fc.loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
