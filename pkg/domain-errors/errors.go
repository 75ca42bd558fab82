// Package dErrors provides coded domain errors so callers can branch on
// outcomes deterministically instead of matching message strings.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel);
// services translate them into coded domain errors at the boundary. Handlers
// translate codes into HTTP statuses in exactly one place.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code discriminates domain error outcomes.
type Code string

const (
	// Generic outcomes.
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
	CodeUnauthorized       Code = "unauthorized"

	// Curation pipeline outcomes. Validation errors leave the record
	// unchanged; state errors mean the caller must supply more evidence or
	// pick a different decision.
	CodeInvalidScoreRange       Code = "invalid_score_range"
	CodeInvalidSensitivityLevel Code = "invalid_sensitivity_level"
	CodeDuplicateReview         Code = "duplicate_review"
	CodeTerminalState           Code = "terminal_state"
	CodeSensitivityGateUnmet    Code = "sensitivity_gate_unmet"
)

// Error is a coded domain error. Compare with HasCode, not string matching.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or any error in its chain) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when err is
// not a coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to an HTTP status for the transport layer.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeInvalidScoreRange, CodeInvalidSensitivityLevel:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateReview, CodeTerminalState, CodeInvariantViolation:
		return http.StatusConflict
	case CodeSensitivityGateUnmet:
		return http.StatusPreconditionFailed
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
