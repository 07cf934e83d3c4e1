// Package apperr is the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/schema"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	Internal Kind = iota
	BadRequest
	Conflict
	NotFound
	ValidationFailed
	StoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case ValidationFailed:
		return "validation_failed"
	case StoreUnavailable:
		return "store_unavailable"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status. Conflict is reported as 400.
func Status(k Kind) int {
	switch k {
	case BadRequest, Conflict:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed:
		return http.StatusUnprocessableEntity
	case StoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

const maxInternalMessage = 50

// Error is a classified failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Fields  []schema.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status for e.
func (e *Error) Status() int { return Status(e.Kind) }

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation wraps schema field errors.
func Validation(fields []schema.FieldError) *Error {
	return &Error{Kind: ValidationFailed, Message: "Validation failed", Fields: fields}
}

// From classifies any error. Errors that are already *Error pass through;
// store errors map to their kinds; the rest are Internal with the message
// cut to 50 characters.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	switch {
	case errors.Is(err, docstore.ErrUnavailable):
		return &Error{Kind: StoreUnavailable, Message: "Database not available", Err: err}
	case errors.Is(err, docstore.ErrDuplicateKey):
		return &Error{Kind: Conflict, Message: "Duplicate key", Err: err}
	}

	return &Error{Kind: Internal, Message: truncate(err.Error(), maxInternalMessage), Err: err}
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	ae := From(err)
	return ae != nil && ae.Kind == kind
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
