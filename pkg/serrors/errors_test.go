package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	err := NewConflict("ASSIGNMENT_OVERLAP", "assignment overlaps an active assignment")
	require.Equal(t, "ASSIGNMENT_OVERLAP: assignment overlaps an active assignment", err.Error())
	require.Equal(t, ClassConflict, err.Class)
}

func TestBaseError_AsThroughWrap(t *testing.T) {
	base := NewNotFound("USER_NOT_FOUND", "user not found")
	wrapped := fmt.Errorf("load user: %w", base)

	var be *BaseError
	require.True(t, errors.As(wrapped, &be))
	require.Equal(t, "USER_NOT_FOUND", be.Code)
	require.Equal(t, ClassNotFound, be.Class)
}

func TestNewOutOfRangeError(t *testing.T) {
	err := NewOutOfRangeError("month", 1, 12)
	require.Equal(t, ClassValidation, err.Class)
	require.Contains(t, err.Message, "month must be between 1 and 12")
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		"Email": NewFieldRequiredError("Email"),
	}
	require.Contains(t, errs.Error(), "Email is required")
}
