package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/careers-sync/internal/store"
)

// ErrNotFound indicates the requested record does not exist
type ErrNotFound struct {
	Kind string
	Key  string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a backend the endpoint needs is not configured
type ErrUnavailable struct {
	What string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available", e.What)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *ErrNotFound
	var validation *ErrValidation
	var unavailable *ErrUnavailable
	switch {
	case errors.As(err, &notFound), errors.Is(err, store.ErrUnknownSource):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
