package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("profile", "a@b.c"), http.StatusNotFound},
		{"validation", NewInvalidInput("name is required", nil), http.StatusBadRequest},
		{"invalid query", NewInvalidQuery("q is blank"), http.StatusBadRequest},
		{"conflict", NewConflict("profile", "email", "a@b.c"), http.StatusConflict},
		{"internal", NewInternal("db down", errors.New("dial tcp")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("get profile failed: %w", NewNotFound("profile", "x")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal("failed to list profiles", cause)

	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, cause, err.Err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "failed to list profiles")
}

func TestAppError_ToJSON(t *testing.T) {
	err := NewInvalidQuery("'q' must not be blank")

	body := err.ToJSON(false)
	assert.Equal(t, "invalid query", body["error"])
	assert.NotContains(t, body, "details")

	body = err.ToJSON(true)
	assert.Equal(t, "'q' must not be blank", body["details"])
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewNotFound("profile", "x"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrNotFound, appErr.BaseError)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
