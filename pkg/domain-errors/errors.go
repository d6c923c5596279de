// Package domainerrors carries coded errors from services to transports.
//
// Services return *Error values with a Code; transports translate the Code
// into a status without inspecting messages. Infrastructure facts (not found,
// conflict) come from pkg/platform/sentinel and are translated at the service
// boundary.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable failure kind.
type Code string

const (
	// Generic codes.
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnauthenticated    Code = "unauthenticated"

	// Compliance taxonomy.
	CodeUnauthorized          Code = "unauthorized"
	CodeInvalidIdentity       Code = "invalid_identity"
	CodeInvalidRecipient      Code = "invalid_recipient"
	CodeInvalidLevel          Code = "invalid_level"
	CodeAlreadyRegistered     Code = "already_registered"
	CodeNotRegistered         Code = "not_registered"
	CodeNotVerified           Code = "not_verified"
	CodeAccountFrozen         Code = "account_frozen"
	CodeInsufficientBalance   Code = "insufficient_balance"
	CodeInsufficientAllowance Code = "insufficient_allowance"
	CodeExceedsMaximum        Code = "exceeds_maximum"
	CodeInvalidLimits         Code = "invalid_limits"
	CodeInvalidRegistry       Code = "invalid_registry"
)

// Error is a coded domain error. Err, when set, is the underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a coded error with no cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost *Error in err's chain has code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// ToHTTPStatus maps a code to the HTTP status transports should use.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeInvalidIdentity, CodeInvalidRecipient,
		CodeInvalidLevel, CodeInvalidLimits, CodeInvalidRegistry:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound, CodeNotRegistered:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyRegistered:
		return http.StatusConflict
	case CodeNotVerified, CodeAccountFrozen, CodeInsufficientBalance,
		CodeInsufficientAllowance, CodeExceedsMaximum, CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
