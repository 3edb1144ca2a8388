package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/starweeb/internal/validation"
)

// Code categorizes engine errors.
type Code string

const (
	// CodeSlugFormat indicates a vanity slug with characters outside [A-Za-z0-9_-].
	CodeSlugFormat Code = "SLUG_FORMAT"

	// CodeSlugReserved indicates a vanity slug equal to a route name.
	CodeSlugReserved Code = "SLUG_RESERVED"

	// CodeSlugTaken indicates a vanity slug held by another user.
	CodeSlugTaken Code = "SLUG_TAKEN"

	// CodeEmptyText indicates a required text field that is blank.
	CodeEmptyText Code = "EMPTY_TEXT"

	// CodeAlreadyAnswered indicates a second answer to the same question.
	CodeAlreadyAnswered Code = "ALREADY_ANSWERED"

	// CodeSelfCrush indicates a crush aimed at oneself.
	CodeSelfCrush Code = "SELF_CRUSH"

	// CodeUnderage indicates a dating action involving a user under 18.
	CodeUnderage Code = "UNDERAGE"

	// CodeUsernameTaken indicates a registration with an existing username.
	CodeUsernameTaken Code = "USERNAME_TAKEN"

	// CodeInvalidInput indicates a malformed form field.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeNotFound indicates a required record that does not exist.
	CodeNotFound Code = "NOT_FOUND"
)

// Error is a rejected operation. No write has been performed when an
// operation returns an *Error.
type Error struct {
	// Code identifies the violated rule.
	Code Code

	// Message is a human-readable description.
	Message string

	// Field names the offending input, when there is one.
	Field string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the Code of err, or "" when err is not an *Error.
// Uses errors.As to handle wrapped errors.
func ErrorCode(err error) Code {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsValidationError reports whether err is a rule violation the caller can
// correct and retry.
func IsValidationError(err error) bool {
	code := ErrorCode(err)
	return code != "" && code != CodeNotFound
}

// IsNotFound reports whether err is a missing required record.
func IsNotFound(err error) bool {
	return ErrorCode(err) == CodeNotFound
}

func invalid(code Code, field, msg string) *Error {
	return &Error{Code: code, Field: field, Message: msg}
}

func notFound(kind, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", kind, id)}
}

func emptyText(field string) *Error {
	return invalid(CodeEmptyText, field, "text must not be empty")
}

// fromSlugError maps a validation package slug error to an engine error.
func fromSlugError(err error) *Error {
	switch {
	case errors.Is(err, validation.ErrSlugFormat):
		return &Error{Code: CodeSlugFormat, Field: "customUrl",
			Message: "URL can only contain letters, numbers, underscores, and dashes", Err: err}
	case errors.Is(err, validation.ErrSlugReserved):
		return &Error{Code: CodeSlugReserved, Field: "customUrl",
			Message: "this custom URL is reserved", Err: err}
	default:
		return &Error{Code: CodeInvalidInput, Field: "customUrl", Message: err.Error(), Err: err}
	}
}
