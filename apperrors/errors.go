// Package apperrors provides coded errors shared by the rules engine, the
// stores and the HTTP layer.
package apperrors

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidState Code = "INVALID_STATE"
	CodeNotYourTurn  Code = "NOT_YOUR_TURN"
	CodeSelfJoin     Code = "SELF_JOIN"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeConflict     Code = "CONFLICT"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Sentinels for errors.Is matching by code.
var (
	ErrNotFound     = New(CodeNotFound, "not found")
	ErrInvalidState = New(CodeInvalidState, "invalid state")
	ErrNotYourTurn  = New(CodeNotYourTurn, "not your turn")
	ErrSelfJoin     = New(CodeSelfJoin, "cannot join own challenge")
	ErrValidation   = New(CodeValidation, "validation failed")
	ErrConflict     = New(CodeConflict, "conflict")
)
