package sap

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed indicates the Service Layer rejected the login call or it
	// could not be reached at all.
	ErrAuthFailed = errors.New("sap: authentication failed")
	// ErrSessionExpired indicates a 401 mid-request that survived one
	// re-login and retry.
	ErrSessionExpired = errors.New("sap: session expired")
	// ErrUnavailable indicates a transport-level failure (timeout, refused
	// connection) before any HTTP status was received.
	ErrUnavailable = errors.New("sap: service layer unavailable")
	// ErrInvalidResponse indicates a response body that could not be parsed.
	ErrInvalidResponse = errors.New("sap: invalid response")
	// ErrUpstream indicates the Service Layer returned a structured business
	// error (HTTP status >= 400). Use errors.As with *APIError for details.
	ErrUpstream = errors.New("sap: upstream error")
	// ErrNotFound indicates a single-entity lookup returned no record.
	ErrNotFound = errors.New("sap: entity not found")
)

// APIError carries the Service Layer's structured error envelope
// (error.message.value) together with the HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sap: upstream error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap makes errors.Is(err, ErrUpstream) work for APIError values.
func (e *APIError) Unwrap() error {
	return ErrUpstream
}
