package core

import (
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation    ErrorCategory = "validation"    // Invalid input
	ErrCatStorage       ErrorCategory = "storage"       // Evidence store failure
	ErrCatSerialization ErrorCategory = "serialization" // Encode/decode failure
	ErrCatNotFound      ErrorCategory = "not_found"     // Resource not found
	ErrCatConflict      ErrorCategory = "conflict"      // Concurrent modification
	ErrCatInternal      ErrorCategory = "internal"      // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
//
// The analysis core itself never fails on valid input; DomainErrors originate
// at the persistence and transport boundaries, and callers wrapping the
// evidence store must degrade (empty result, false) rather than let storage
// failures interrupt detection.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
	Details  map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{Category: ErrCatValidation, Code: code, Message: message}
}

// ErrStorage creates a storage error.
func ErrStorage(code, message string) *DomainError {
	return &DomainError{Category: ErrCatStorage, Code: code, Message: message}
}

// ErrSerialization creates a serialization error.
func ErrSerialization(message string) *DomainError {
	return &DomainError{Category: ErrCatSerialization, Code: "SERIALIZATION", Message: message}
}

// ErrNotFound creates a not-found error.
func ErrNotFound(resource string) *DomainError {
	return &DomainError{Category: ErrCatNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("%s not found", resource)}
}

// ErrInternal creates an internal error.
func ErrInternal(message string) *DomainError {
	return &DomainError{Category: ErrCatInternal, Code: "INTERNAL", Message: message}
}
