package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/teamerhq/teamer/internal/apperrors"
)

// ErrorResponse represents a standard error JSON response.
type ErrorResponse struct {
	Status  string            `json:"status"`           // "fail" or "error"
	Message string            `json:"message"`          // Error message
	Code    int               `json:"code"`             // HTTP status code
	Fields  map[string]string `json:"fields,omitempty"` // Per-field validation errors
}

// SendError sends a standardized error response.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Status:  statusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// SendAppError maps an apperrors kind to its HTTP status. Internal causes
// are logged and never sent to the client.
func SendAppError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", c.GetString("requestId")).
			Msg("request failed")
	}
	SendError(c, code, apperrors.PublicMessage(err))
}

// SendValidationError reports binding failures with a per-field breakdown.
func SendValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Status:  statusText(http.StatusBadRequest),
		Message: "Invalid request payload or parameters",
		Code:    http.StatusBadRequest,
		Fields:  fields,
	})
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized access"
	}
	SendError(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access to this resource is forbidden"
	}
	SendError(c, http.StatusForbidden, message)
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request payload or parameters"
	}
	SendError(c, http.StatusBadRequest, message)
}

// statusText follows JSend: "fail" for rejected input, "error" for server
// failures.
func statusText(code int) string {
	if code >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}
