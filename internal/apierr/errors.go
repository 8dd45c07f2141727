// Package apierr defines the closed set of errors the API exposes to clients
// and the translation of data-layer failures into that set.
package apierr

import (
	"fmt"
	"net/http"
)

// Kind classifies an error for clients.
type Kind string

const (
	KindUnauthenticated Kind = "authentication_failure"
	KindForbidden       Kind = "authorization_failure"
	KindNotFound        Kind = "not_found"
	KindInvalidRequest  Kind = "invalid_request"
	KindDuplicate       Kind = "conflict_duplicate"
	KindInvalidRef      Kind = "conflict_invalid_reference"
	KindInvalidInput    Kind = "conflict_invalid_input"
	KindInternal        Kind = "internal_error"
)

var statusByKind = map[Kind]int{
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindInvalidRequest:  http.StatusBadRequest,
	KindDuplicate:       http.StatusConflict,
	KindInvalidRef:      http.StatusConflict,
	KindInvalidInput:    http.StatusConflict,
	KindInternal:        http.StatusInternalServerError,
}

// Violation describes one rejected request field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error is an error that is safe to show to clients. The wrapped cause is
// only ever logged.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Cause returns the internal error this error was derived from, if any.
func (e *Error) Cause() error { return e.cause }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports a missing, malformed or expired credential.
func Unauthenticated(format string, args ...any) *Error {
	return newf(KindUnauthenticated, format, args...)
}

// Forbidden reports an authenticated caller lacking access. The message is
// fixed so the response never reveals which capability was missing.
func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: "you are not allowed to perform this action"}
}

// NotFound reports a missing resource.
func NotFound(resource string) *Error {
	return newf(KindNotFound, "%s not found", resource)
}

// Invalid reports a request that failed validation.
func Invalid(message string, violations ...Violation) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message, Violations: violations}
}

// Duplicate reports a uniqueness conflict on field.
func Duplicate(field string) *Error {
	return newf(KindDuplicate, "a record with this %s already exists", field)
}

// InvalidReference reports a reference to a record that does not exist or
// is still referenced elsewhere.
func InvalidReference(message string) *Error {
	return &Error{Kind: KindInvalidRef, Message: message}
}

// InvalidInput reports input the data layer could not store.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// Internal hides cause behind a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}

// Wrap attaches an internal cause to e and returns e.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}
