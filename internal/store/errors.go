// Package store defines the persistence error contract the sqlite layer
// raises and the API error mapper consumes.
package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence error carrying the HTTP status it should map to.
// The API layer renders any error exposing HTTPCode directly; everything
// else becomes a generic 500.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same status code, so WithMessage copies
// still satisfy errors.Is against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a copy of the sentinel with a specific message, so
// callers can say "cannot follow yourself" while errors.Is still matches
// the sentinel by code.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// Sentinels raised by the store layer. Ownership and auth violations are
// not persistence concerns; the service layer raises those from
// internal/errors instead.
var (
	// ErrNotFound covers missing rows and owner-scoped writes that
	// matched zero rows.
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	// ErrAlreadyExists maps UNIQUE violations: usernames, emails, slugs,
	// like pairs, follow edges, purchase pairs.
	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	// ErrInvalidInput maps CHECK violations, e.g. a self-follow edge.
	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)
