package apperr

import (
	"errors"
	"net/http"
)

// Error is an application error with a stable message and the HTTP status
// it maps to at the edge.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

// Validation marks malformed or incomplete input.
func Validation(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusBadRequest}
}

// Authentication marks a credential that cannot be resolved to an identity.
func Authentication(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusUnauthorized}
}

// Authorization marks an identity lacking the role or relationship the
// operation requires.
func Authorization(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusForbidden}
}

// NotFound marks a reference to an entity that does not exist.
func NotFound(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusNotFound}
}

// Conflict marks a state transition that is not legal from the current state.
func Conflict(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusConflict}
}

// Storage marks an underlying store failure.
func Storage(msg string) *Error {
	return &Error{Message: msg, Code: http.StatusInternalServerError}
}

// Status returns the HTTP status for err, defaulting to 500 for errors
// that did not come from this package.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
