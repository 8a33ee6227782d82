package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind represents different categories of scheduling errors
type ErrorKind string

const (
	ErrKindSlotConflict       ErrorKind = "slot_conflict"
	ErrKindInvalidSlot        ErrorKind = "invalid_slot"
	ErrKindInvalidTransition  ErrorKind = "invalid_transition"
	ErrKindNotFound           ErrorKind = "not_found"
	ErrKindUnauthorized       ErrorKind = "unauthorized"
	ErrKindDuplicateOutcome   ErrorKind = "duplicate_outcome"
	ErrKindInvariantViolation ErrorKind = "invariant_violation"
	ErrKindValidation         ErrorKind = "validation"
	ErrKindInternal           ErrorKind = "internal"
)

// HMSError represents a structured error in the hospital management system
type HMSError struct {
	Kind    ErrorKind              `json:"kind"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *HMSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *HMSError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an HMSError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var hmsErr *HMSError
	if errors.As(err, &hmsErr) {
		return hmsErr.Kind == kind
	}
	return false
}

// NewSlotConflictError creates a new slot conflict error
func NewSlotConflictError(message string, details map[string]interface{}) *HMSError {
	return &HMSError{
		Kind:    ErrKindSlotConflict,
		Code:    ErrCodeSlotConflict,
		Message: message,
		Details: details,
	}
}

// NewInvalidSlotError creates a new invalid slot error
func NewInvalidSlotError(message string) *HMSError {
	return &HMSError{
		Kind:    ErrKindInvalidSlot,
		Code:    ErrCodeInvalidSlot,
		Message: message,
	}
}

// NewInvalidTransitionError creates a new invalid transition error
func NewInvalidTransitionError(message string, details map[string]interface{}) *HMSError {
	return &HMSError{
		Kind:    ErrKindInvalidTransition,
		Code:    ErrCodeInvalidTransition,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *HMSError {
	return &HMSError{
		Kind:    ErrKindNotFound,
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *HMSError {
	return &HMSError{
		Kind:    ErrKindUnauthorized,
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewDuplicateOutcomeError creates a new duplicate outcome error
func NewDuplicateOutcomeError(message string) *HMSError {
	return &HMSError{
		Kind:    ErrKindDuplicateOutcome,
		Code:    ErrCodeDuplicateOutcome,
		Message: message,
	}
}

// NewInvariantViolationError creates a new invariant violation error
func NewInvariantViolationError(message string, details map[string]interface{}) *HMSError {
	return &HMSError{
		Kind:    ErrKindInvariantViolation,
		Code:    ErrCodeInvariantViolation,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *HMSError {
	return &HMSError{
		Kind:    ErrKindValidation,
		Code:    ErrCodeValidationFailed,
		Message: message,
		Details: details,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *HMSError {
	return &HMSError{
		Kind:    ErrKindInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// HTTPStatus maps the error kind to an HTTP status code
func (e *HMSError) HTTPStatus() int {
	switch e.Kind {
	case ErrKindSlotConflict, ErrKindInvalidTransition, ErrKindDuplicateOutcome:
		return http.StatusConflict
	case ErrKindInvalidSlot, ErrKindValidation:
		return http.StatusBadRequest
	case ErrKindNotFound:
		return http.StatusNotFound
	case ErrKindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusForError returns the HTTP status for any error, defaulting to 500
func HTTPStatusForError(err error) int {
	var hmsErr *HMSError
	if errors.As(err, &hmsErr) {
		return hmsErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Common error codes
const (
	ErrCodeSlotConflict       = "SLOT_CONFLICT"
	ErrCodeInvalidSlot        = "INVALID_SLOT"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeDuplicateOutcome   = "DUPLICATE_OUTCOME"
	ErrCodeInvariantViolation = "INVARIANT_VIOLATION"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)
