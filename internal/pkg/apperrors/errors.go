// Package apperrors is the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUpdateFailed
	KindStorageFailed
)

// Error carries a client-facing message plus optional details for the response body.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error      { return &Error{Kind: KindValidation, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }

// UpdateFailed wraps a store failure; the cause is exposed as details.
func UpdateFailed(cause error) *Error {
	return &Error{Kind: KindUpdateFailed, Message: "Update failed", Details: causeText(cause), Err: cause}
}

// CreateFailed is the UpdateFailed kind for a failed insert.
func CreateFailed(cause error) *Error {
	return &Error{Kind: KindUpdateFailed, Message: "Failed to create listing", Details: causeText(cause), Err: cause}
}

// StorageFailed wraps an object-storage failure for the named file.
func StorageFailed(file string, cause error) *Error {
	return &Error{
		Kind:    KindStorageFailed,
		Message: "Image upload failed",
		Details: map[string]interface{}{"file": file, "reason": causeText(cause)},
		Err:     cause,
	}
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}
