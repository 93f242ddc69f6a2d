package global

import (
	"errors"
	"strings"
)

// Error kinds. Every error surfaced by a service wraps exactly one of them.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrUpstream    = errors.New("upstream error")
	ErrPersistence = errors.New("persistence error")
)

// Error is a structured service error. Message is safe to show to callers,
// Cause is for logs only.
type Error struct {
	Kind    error
	Message string
	Fields  []ValidationError
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func Validation(message string, fields ...ValidationError) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func Upstream(message string, cause error) *Error {
	return &Error{Kind: ErrUpstream, Message: message, Cause: cause}
}

func Persistence(message string, cause error) *Error {
	return &Error{Kind: ErrPersistence, Message: message, Cause: cause}
}

// Required builds the field error used for missing mandatory input.
func Required(field string) ValidationError {
	return ValidationError{Field: field, Message: field + " is required", Code: "required"}
}
