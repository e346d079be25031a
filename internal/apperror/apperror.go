// Package apperror classifies errors that cross the web and console
// boundaries into a small set of kinds, each with its own status code.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindDataStore Kind = iota
	KindValidation
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "data_store"
	}
}

// StatusCode is the HTTP status a kind is reported with.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// DataStore wraps a failure of generation, insertion or reflection. The raw
// error text is kept so callers can show it unchanged.
func DataStore(err error) *Error {
	return &Error{Kind: KindDataStore, Err: err}
}

// KindOf reports the kind of err. Errors that were never classified are data
// store errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindDataStore
}

func StatusOf(err error) int {
	return KindOf(err).StatusCode()
}
