package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("delete field: %w", NotFound("field"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, "field not found", PublicMessage(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Invalid("city is required"):         http.StatusBadRequest,
		Forbidden("not a field manager"):     http.StatusForbidden,
		Conflict("slot overlaps"):            http.StatusConflict,
		Unauthorized("missing token"):        http.StatusUnauthorized,
		Internal(errors.New("boom"), "load"): http.StatusInternalServerError,
		errors.New("plain"):                  http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New(`pq: relation "games" does not exist`)
	err := Internal(cause, "failed to list games")

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, PublicMessage(err), "pq:")
	assert.Equal(t, "An unexpected error occurred on the server", PublicMessage(err))
}

func TestFromStore(t *testing.T) {
	assert.Nil(t, FromStore(nil, "team"))
	assert.Equal(t, KindNotFound, KindOf(FromStore(gorm.ErrRecordNotFound, "team")))
	assert.Equal(t, "team not found", PublicMessage(FromStore(gorm.ErrRecordNotFound, "team")))
	assert.Equal(t, KindConflict, KindOf(FromStore(gorm.ErrDuplicatedKey, "team member")))
	assert.Equal(t, KindInternal, KindOf(FromStore(errors.New("disk full"), "team")))

	forbidden := Forbidden("no")
	assert.Same(t, forbidden, FromStore(forbidden, "team"))
}
