package api

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for remote calls. Callers match with errors.Is; the
// controller decides what each kind means for the local session.
var (
	// ErrUnavailable means no response was received at all (transport
	// failure or timeout). Distinct from ErrUnauthorized so a valid session
	// is never cleared just because the network is down.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized covers 401 and 403: credentials rejected or token
	// invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers 404: no account for the identifier, or resource
	// missing.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers 409: duplicate account on register.
	ErrConflict = errors.New("already exists")

	// ErrBadRequest covers 400: payload rejected by server-side validation.
	ErrBadRequest = errors.New("bad request")

	// ErrServer covers 5xx: generic retryable server failure.
	ErrServer = errors.New("server error")
)

// APIError carries the HTTP status and the server's message text, wrapped
// around the matching sentinel so errors.Is keeps working.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}
