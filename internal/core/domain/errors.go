package domain

import (
	"errors"
	"fmt"
)

// DomainError is a client-side validation error with a stable code.
// Codes look like "MG-ARG-4001".
type DomainError struct {
	Code    string // Error code (e.g., "MG-ARG-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Argument errors (ARG).
var (
	// ErrMissingArgument indicates a required field was empty.
	ErrMissingArgument = NewDomainError("MG-ARG-4001", "missing required argument")

	// ErrInvalidArgument indicates a field had a malformed value.
	ErrInvalidArgument = NewDomainError("MG-ARG-4002", "invalid argument")

	// ErrInvalidRiskTolerance indicates an unknown risk tolerance.
	ErrInvalidRiskTolerance = NewDomainError("MG-ARG-4003", "invalid risk tolerance")

	// ErrInvalidFinancialLevel indicates an unknown financial level.
	ErrInvalidFinancialLevel = NewDomainError("MG-ARG-4004", "invalid financial level")

	// ErrInvalidTimeAvailability indicates an unknown time availability.
	ErrInvalidTimeAvailability = NewDomainError("MG-ARG-4005", "invalid time availability")

	// ErrInvalidLessonLevel indicates an unknown lesson filter level.
	ErrInvalidLessonLevel = NewDomainError("MG-ARG-4006", "invalid lesson level")

	// ErrEmptyMessage indicates a blank chat message.
	ErrEmptyMessage = NewDomainError("MG-ARG-4007", "message must not be empty")

	// ErrEmptySymbol indicates a blank ticker symbol.
	ErrEmptySymbol = NewDomainError("MG-ARG-4008", "symbol must not be empty")

	// ErrNegativeAmount indicates a money field below zero.
	ErrNegativeAmount = NewDomainError("MG-ARG-4009", "amount must not be negative")
)
