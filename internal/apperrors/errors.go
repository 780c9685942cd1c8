// Package apperrors defines the coded, user-facing failures of the cash
// ledger. Everything else is an infrastructure fault and travels as a plain
// wrapped error.
package apperrors

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidType        Code = "INVALID_TYPE"
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeMissingComment     Code = "MISSING_COMMENT"
	CodeMissingEmployee    Code = "MISSING_EMPLOYEE"

	// Access control
	CodeNotAuthenticated     Code = "NOT_AUTHENTICATED"
	CodeAlreadyAuthenticated Code = "ALREADY_AUTHENTICATED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeUnknownStore         Code = "UNKNOWN_STORE"
)

// Error is a domain failure carrying a code and a message fit for display.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches any *Error with the same code, so callers can compare against
// the sentinels below regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrInvalidCredentials   = New(CodeInvalidCredentials, "invalid email or password")
	ErrInvalidType          = New(CodeInvalidType, "type must be ADD or WITHDRAW")
	ErrInvalidAmount        = New(CodeInvalidAmount, "amount must be a number greater than zero")
	ErrMissingComment       = New(CodeMissingComment, "comment is required")
	ErrMissingEmployee      = New(CodeMissingEmployee, "select an employee from your store")
	ErrNotAuthenticated     = New(CodeNotAuthenticated, "login required")
	ErrAlreadyAuthenticated = New(CodeAlreadyAuthenticated, "already logged in; logout first")
	ErrForbidden            = New(CodeForbidden, "not permitted for this role")
	ErrUnknownStore         = New(CodeUnknownStore, "unknown store")
)

// CodeOf extracts the code of a domain error, or "" for anything else.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidType, CodeInvalidAmount, CodeMissingComment, CodeMissingEmployee:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeNotAuthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnknownStore:
		return http.StatusNotFound
	case CodeAlreadyAuthenticated:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
