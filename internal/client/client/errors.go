package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotFound    = errors.New("not found")
	ErrBadRequest  = errors.New("bad request")
)

// APIError is a non-success HTTP response.
type APIError struct {
	Status    int
	Message   string
	Method    string
	Path      string
	RequestID string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	case ErrBadRequest:
		return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError &&
			e.Status != http.StatusNotFound
	}
	return false
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUnavailable }
