package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/careers-sync/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Kind: "run", Key: "abc"}
	assert.Equal(t, "run not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "status", Message: "must be live or expired"}
	assert.Equal(t, "validation error: status - must be live or expired", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown source", err: fmt.Errorf("%w: ubs", store.ErrUnknownSource), want: http.StatusNotFound},
		{name: "wrapped validation", err: fmt.Errorf("bad: %w", &ErrValidation{Field: "limit"}), want: http.StatusBadRequest},
		{name: "unavailable", err: &ErrUnavailable{What: "run history"}, want: http.StatusServiceUnavailable},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
