package serrors

import (
	"fmt"
	"strings"
)

// Class partitions service errors into the buckets handlers know how to
// convert into HTTP responses.
type Class int

const (
	ClassInternal Class = iota
	ClassNotFound
	ClassForbidden
	ClassConflict
	ClassValidation
)

// BaseError is the structured error carried across service boundaries.
// Code is a stable machine-readable identifier, Message a human-readable
// reason safe to return to clients.
type BaseError struct {
	Class   Class
	Code    string
	Message string
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string, class Class) *BaseError {
	return &BaseError{Class: class, Code: code, Message: message}
}

func NewNotFound(code, message string) *BaseError {
	return NewError(code, message, ClassNotFound)
}

func NewForbidden(code, message string) *BaseError {
	return NewError(code, message, ClassForbidden)
}

func NewConflict(code, message string) *BaseError {
	return NewError(code, message, ClassConflict)
}

func NewValidation(code, message string) *BaseError {
	return NewError(code, message, ClassValidation)
}

func NewInternal(code, message string) *BaseError {
	return NewError(code, message, ClassInternal)
}

func NewFieldRequiredError(field string) *BaseError {
	return NewValidation("FIELD_REQUIRED", fmt.Sprintf("%s is required", field))
}

// NewOutOfRangeError reports a numeric field outside its allowed bounds.
func NewOutOfRangeError(field string, lo, hi any) *BaseError {
	return NewValidation(
		"FIELD_OUT_OF_RANGE",
		fmt.Sprintf("%s must be between %v and %v", field, lo, hi),
	)
}

// ValidationErrors accumulates per-field validation failures.
type ValidationErrors map[string]*BaseError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, err := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", field, err.Message))
	}
	return strings.Join(parts, "; ")
}
