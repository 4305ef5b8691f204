// Package domainerrors defines the coded error type shared by every domain
// store and the HTTP layer. Services return *Error values; transport code maps
// the Code to a status and the Notification Channel shows the Message.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure. Codes are stable and appear in API
// responses as the "error" field.
type Code string

const (
	CodeValidation   Code = "validation_error"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeUnsupported  Code = "unsupported"
	CodeTooLarge     Code = "too_large"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// FieldError pins a validation message to a field path such as
// "confirmPassword" or "dashboard.refreshInterval".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is the domain error carried across service boundaries.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation builds a CodeValidation error from ordered field failures. The
// message is the first field's message so callers that only show one line
// show the first failing check.
func Validation(fields ...FieldError) *Error {
	msg := "Validation error"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

// NotFound reports a missing record by kind and id.
func NotFound(kind, id string) *Error {
	return Newf(CodeNotFound, "%s not found: %s", kind, id)
}

// HasCode reports whether any *Error in err's chain has the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// Is is a shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf returns the field failures of the outermost validation error.
func FieldsOf(err error) []FieldError {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// FirstMessage returns the message of the first failing field, falling back
// to the error's own message, then to fallback.
func FirstMessage(err error, fallback string) string {
	var de *Error
	if !errors.As(err, &de) {
		return fallback
	}
	if len(de.Fields) > 0 && de.Fields[0].Message != "" {
		return de.Fields[0].Message
	}
	if de.Message != "" {
		return de.Message
	}
	return fallback
}
