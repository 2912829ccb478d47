// Package apperrors holds the error taxonomy shared by the catalog engine.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means no usable bearer token was available. Never retried.
	ErrUnauthenticated = errors.New("unauthenticated: no bearer token available")

	// ErrMissingIdentifier is returned when update or delete is attempted on an
	// entity without a canonical identifier.
	ErrMissingIdentifier = errors.New("missing identifier")

	// ErrBusy is returned when another operation is already in flight on a store.
	ErrBusy = errors.New("another operation is in progress")

	// ErrSessionClosed is returned when a finished form session is submitted again.
	ErrSessionClosed = errors.New("form session already completed")
)

// ValidationError represents a local validation failure. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RemoteError is a non-2xx response from the catalog service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d (%s)", e.Status, http.StatusText(e.Status))
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage returns the text a screen should show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "Please sign in again."
	}
	if errors.Is(err, ErrBusy) {
		return "Please wait for the current operation to finish."
	}
	return err.Error()
}
