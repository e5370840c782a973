package common

import (
	"fmt"

	"mxls/src/internal/errors"
)

// Shorthands over the unified error system

// WrapProcessingError wraps an error with operation context for better error messages
func WrapProcessingError(operation string, err error) error {
	return errors.WrapWithContext(operation, err)
}

// ParameterValidationError creates a formatted parameter validation error
func ParameterValidationError(msg string) error {
	return errors.NewValidationError("parameter", msg)
}

// CreateValidationErrorForURI creates a validation error for URI-related issues
func CreateValidationErrorForURI(msg string) error {
	return errors.NewValidationError("uri", msg)
}

// CreateValidationErrorForPosition creates a validation error for position-related issues
func CreateValidationErrorForPosition(msg string) error {
	return errors.NewValidationError("position", msg)
}

// GetErrorCategory returns a category string for error classification
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	switch {
	case errors.IsCancellationError(err):
		return "cancellation"
	case errors.IsValidationError(err):
		return "validation"
	case errors.IsNoOffsetFound(err):
		return "position"
	case errors.IsUnitScopeError(err):
		return "scope"
	default:
		return "general"
	}
}

// SanitizeErrorForLogging trims long payloads before they reach the log
func SanitizeErrorForLogging(err interface{}) string {
	if err == nil {
		return ""
	}
	var msg string
	switch v := err.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprint(v)
	}
	const maxLen = 200
	if len(msg) > maxLen {
		return msg[:maxLen] + "..."
	}
	return msg
}
