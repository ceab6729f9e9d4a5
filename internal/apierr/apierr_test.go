package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessagePrecedence(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "boom", New(http.StatusBadRequest, "bad_request", cause).Error())
	assert.Equal(t, "bad_request", New(http.StatusBadRequest, "bad_request", nil).Error())
	assert.Equal(t, "api error (400)", New(http.StatusBadRequest, "", nil).Error())
	assert.Equal(t, "api error", (&Error{}).Error())
}

func TestUnwrapReachesSentinel(t *testing.T) {
	sentinel := errors.New("cannot delete")
	wrapped := New(http.StatusUnprocessableEntity, "cannot_delete", sentinel)

	assert.ErrorIs(t, wrapped, sentinel)

	var apiErr *Error
	assert.ErrorAs(t, error(wrapped), &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
}
