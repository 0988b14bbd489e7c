package widget

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidgetErrorMessage(t *testing.T) {
	err := NewMalformedResponseError("response payload is not valid JSON", errors.New("unexpected token"))
	assert.Contains(t, err.Error(), "Malformed Response")
	assert.Contains(t, err.Error(), "unexpected token")

	bare := NewValidationError("numberOfFiles must be >= 1")
	assert.Contains(t, bare.Error(), "Validation Error")
	assert.NotContains(t, bare.Error(), "caused by")
}

func TestWidgetErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransportUnavailableError("transport rejected request", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestIsKind(t *testing.T) {
	err := NewSubmissionInFlightError("abc-123")
	assert.True(t, IsKind(err, ErrTypeSubmissionInFlight))
	assert.False(t, IsKind(err, ErrTypeMalformedResponse))

	// Works through wrapping
	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, IsKind(wrapped, ErrTypeSubmissionInFlight))

	assert.False(t, IsKind(errors.New("plain"), ErrTypeSubmissionInFlight))
	assert.False(t, IsKind(nil, ErrTypeSubmissionInFlight))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "Malformed Response", ErrTypeMalformedResponse.String())
	assert.Equal(t, "Transport Unavailable", ErrTypeTransportUnavailable.String())
	assert.Equal(t, "Submission In Flight", ErrTypeSubmissionInFlight.String())
	assert.Equal(t, "Validation Error", ErrTypeValidation.String())
	assert.Equal(t, "Unknown Error", ErrTypeUnknown.String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
}
