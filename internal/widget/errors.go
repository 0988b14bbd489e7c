package widget

import (
	"errors"
	"fmt"
)

// Error types for widget operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeMalformedResponse indicates the transport payload could not be decoded
	ErrTypeMalformedResponse ErrorType = iota
	// ErrTypeTransportUnavailable indicates the transport is structurally unusable
	ErrTypeTransportUnavailable
	// ErrTypeSubmissionInFlight indicates a submission is already outstanding
	ErrTypeSubmissionInFlight
	// ErrTypeValidation indicates invalid configuration or slot input
	ErrTypeValidation
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeMalformedResponse:
		return "Malformed Response"
	case ErrTypeTransportUnavailable:
		return "Transport Unavailable"
	case ErrTypeSubmissionInFlight:
		return "Submission In Flight"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// WidgetError represents a recoverable error raised by the form controller.
// None of these are fatal: the controller re-enables interaction and leaves
// the slot set untouched.
type WidgetError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *WidgetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *WidgetError) Unwrap() error {
	return e.Err
}

// NewMalformedResponseError creates an error for an undecodable transport payload
func NewMalformedResponseError(message string, err error) *WidgetError {
	return &WidgetError{
		Type:    ErrTypeMalformedResponse,
		Message: message,
		Err:     err,
	}
}

// NewTransportUnavailableError creates an error for a structurally unusable transport
func NewTransportUnavailableError(message string, err error) *WidgetError {
	return &WidgetError{
		Type:    ErrTypeTransportUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewSubmissionInFlightError creates an error for a submit attempt while disabled
func NewSubmissionInFlightError(correlationID string) *WidgetError {
	return &WidgetError{
		Type:    ErrTypeSubmissionInFlight,
		Message: fmt.Sprintf("submission %s is still outstanding", correlationID),
	}
}

// NewValidationError creates an error for invalid configuration or slot input
func NewValidationError(message string) *WidgetError {
	return &WidgetError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// IsKind reports whether err is a WidgetError of the given type
func IsKind(err error, et ErrorType) bool {
	var we *WidgetError
	if errors.As(err, &we) {
		return we.Type == et
	}
	return false
}
