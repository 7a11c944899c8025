package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamerhq/teamer/internal/apperrors"
)

func init() { gin.SetMode(gin.TestMode) }

func send(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SendAppError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestSendAppErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.NotFound("field"), http.StatusNotFound},
		{apperrors.Invalid("bad date"), http.StatusBadRequest},
		{apperrors.Forbidden("not yours"), http.StatusForbidden},
		{apperrors.Conflict("slot taken"), http.StatusConflict},
		{apperrors.Unauthorized("who are you"), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		code, body := send(t, tc.err)
		assert.Equal(t, tc.code, code)
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, "fail", body.Status)
		assert.Equal(t, apperrors.PublicMessage(tc.err), body.Message)
	}
}

func TestSendAppErrorHidesInternalCause(t *testing.T) {
	code, body := send(t, apperrors.Internal(errors.New("pq: connection refused"), "load field"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", body.Status)
	assert.NotContains(t, body.Message, "pq")

	code, _ = send(t, errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, code)
}
