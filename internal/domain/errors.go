package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrValidation = errors.New("validation error")

	// ErrTokenInvalid and ErrTokenExpired signal credential failures raised by
	// code that does not use golang-jwt directly.
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind is one member of the closed failure taxonomy. Each kind carries an
// HTTP status code and a stable category tag.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

var kindNames = map[Kind]string{
	KindInternal:     "InternalError",
	KindBadRequest:   "BadRequest",
	KindUnauthorized: "Unauthorized",
	KindForbidden:    "Forbidden",
	KindNotFound:     "NotFound",
	KindConflict:     "Conflict",
}

var kindStatus = map[Kind]int{
	KindInternal:     http.StatusInternalServerError,
	KindBadRequest:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// StatusCode returns the HTTP status code for the kind. Unknown kinds map to 500.
func (k Kind) StatusCode() int {
	if code, ok := kindStatus[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Status returns "fail" for client errors and "error" for server errors.
func (k Kind) Status() string {
	if k.StatusCode() < http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

// Error is a normalized application failure. Operational errors are expected
// conditions whose message is safe to show to clients; non-operational errors
// are defects whose message is only revealed in development mode.
type Error struct {
	Kind        Kind
	Message     string
	Operational bool

	// Cause is retained for server-side diagnostics only.
	Cause error
	// Details lists individual messages, e.g. every violated validation rule.
	Details []string
	// Stack holds a captured goroutine stack when one is available (panics).
	Stack string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code of the error's kind.
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// Status returns the category tag ("fail" or "error") of the error's kind.
func (e *Error) Status() string {
	return e.Kind.Status()
}

// BadRequest creates an operational 400 error.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Operational: true}
}

// Unauthorized creates an operational 401 error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Operational: true}
}

// Forbidden creates an operational 403 error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Operational: true}
}

// NotFound creates an operational 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Operational: true}
}

// Conflict creates an operational 409 error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Operational: true}
}

// Internal creates a non-operational 500 error wrapping cause.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// Violation is a single failed validation rule.
type Violation struct {
	Field   string
	Message string
}

// ValidationError carries every violation found in one input, in rule order.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr)
// to access the individual violations.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Messages(), "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Messages returns the violation messages in order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

