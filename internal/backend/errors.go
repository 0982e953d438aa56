package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthRequired matches any 401 response, structured or not.
var ErrAuthRequired = errors.New("authentication required")

// APIError is a non-2xx response that carried a structured error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrAuthRequired && e.StatusCode == http.StatusUnauthorized
}

// TransportError is a network failure or a non-2xx response without a
// structured body.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrAuthRequired && e.StatusCode == http.StatusUnauthorized
}
