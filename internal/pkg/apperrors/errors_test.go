package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("x").Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("x").Status())
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("x").Status())
	assert.Equal(t, http.StatusConflict, Conflict("x").Status())
	assert.Equal(t, http.StatusInternalServerError, UpdateFailed(errors.New("boom")).Status())
	assert.Equal(t, http.StatusInternalServerError, StorageFailed("a.jpg", errors.New("boom")).Status())
}

func TestAs_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("Not found"))
	ae, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "Not found", ae.Message)
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestUpdateFailed_Details(t *testing.T) {
	cause := errors.New("constraint violated")
	e := UpdateFailed(cause)
	assert.Equal(t, "Update failed", e.Message)
	assert.Equal(t, "constraint violated", e.Details)
	assert.ErrorIs(t, e, cause)
}
