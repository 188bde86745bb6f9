package store

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
// Services translate these into coded domain errors at the boundary;
// anything that is not a *Error is an infrastructure fault and must be
// propagated, never converted into a "false" result.
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

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// Is reports whether target matches this error by status code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)

// Per-entity not-found/conflict variants. All lookups use these
// consistently; there is no sentinel-value "not found" anywhere.
var (
	ErrUserNotFound           = ErrNotFound.WithMessage("user not found")
	ErrBookNotFound           = ErrNotFound.WithMessage("book not found")
	ErrLibraryNotFound        = ErrNotFound.WithMessage("library not found")
	ErrBookNotInLibrary       = ErrNotFound.WithMessage("book not in library")
	ErrRecommendationNotFound = ErrNotFound.WithMessage("recommendation not found")
	ErrRatingNotFound         = ErrNotFound.WithMessage("rating not found")

	ErrUserExists           = ErrAlreadyExists.WithMessage("user already exists")
	ErrLibraryExists        = ErrAlreadyExists.WithMessage("library name already used")
	ErrRecommendationExists = ErrAlreadyExists.WithMessage("recommendation already exists")
	ErrRatingExists         = ErrAlreadyExists.WithMessage("book already rated by user")
)

// IsNotFound reports whether err is any not-found store error.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// IsAlreadyExists reports whether err is any conflict store error.
func IsAlreadyExists(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == http.StatusConflict
}
