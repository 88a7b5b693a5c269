package clone

import (
	"errors"
	"fmt"

	"github.com/roach88/deepclone/internal/value"
)

// ErrorCode categorizes clone errors.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates a container without reference identity.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeConstructionFailed indicates a handler could not rebuild a value.
	// It is logged and degraded to sharing; Clone never returns it.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
)

// CloneError represents a failure detected while cloning.
type CloneError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the kind of the offending value.
	Kind value.Kind

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CloneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Code, e.Message, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Kind)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError creates a CloneError for an untrackable container.
func NewInvalidInputError(kind value.Kind) *CloneError {
	return &CloneError{
		Code:    ErrCodeInvalidInput,
		Message: "container has no reference identity",
		Kind:    kind,
	}
}

// NewConstructionError creates a CloneError for a failed rebuild.
func NewConstructionError(kind value.Kind, err error) *CloneError {
	return &CloneError{
		Code:    ErrCodeConstructionFailed,
		Message: "could not rebuild value",
		Kind:    kind,
		Err:     err,
	}
}

// IsInvalidInput reports whether err is an INVALID_INPUT CloneError.
// Uses errors.As to handle wrapped errors.
func IsInvalidInput(err error) bool {
	var ce *CloneError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidInput
	}
	return false
}

// IsConstructionFailed reports whether err is a CONSTRUCTION_FAILED CloneError.
func IsConstructionFailed(err error) bool {
	var ce *CloneError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeConstructionFailed
	}
	return false
}
