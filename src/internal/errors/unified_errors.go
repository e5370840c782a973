package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrNoOffsetFound is returned when a position lies beyond the end of a document
var ErrNoOffsetFound = stderrors.New("no offset found")

// LSPError represents a standard LSP error with code and optional data
type LSPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *LSPError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("LSP error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("LSP error %d: %s", e.Code, e.Message)
}

// ValidationError represents parameter validation errors
type ValidationError struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
	Missing   bool   `json:"missing,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for parameter '%s': %s", e.Parameter, e.Message)
}

// UnitScopeError is raised when the compiler cannot produce a unit's scope
type UnitScopeError struct {
	Path  string `json:"path"`
	Cause error  `json:"cause,omitempty"`
}

func (e *UnitScopeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scope unavailable for %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("scope unavailable for %s", e.Path)
}

func (e *UnitScopeError) Unwrap() error {
	return e.Cause
}

// SnapshotError reports a semantic snapshot that could not be loaded
type SnapshotError struct {
	Path  string `json:"path"`
	Cause error  `json:"cause,omitempty"`
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.Path, e.Cause)
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}

// NewLSPError creates a new LSP error
func NewLSPError(code int, message string, data interface{}) *LSPError {
	return &LSPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewValidationError creates a new validation error for the specified parameter
func NewValidationError(parameter, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Message:   message,
	}
}

// NewUnitScopeError wraps a compiler failure for one unit
func NewUnitScopeError(path string, cause error) *UnitScopeError {
	return &UnitScopeError{Path: path, Cause: cause}
}

// NewSnapshotError wraps a snapshot decoding failure
func NewSnapshotError(path string, cause error) *SnapshotError {
	return &SnapshotError{Path: path, Cause: cause}
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var valErr *ValidationError
	if stderrors.As(err, &valErr) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "validation") ||
		strings.Contains(errMsg, "invalid params")
}

// IsCancellationError checks if the error is a cancellation error
func IsCancellationError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "canceled") ||
		strings.Contains(errMsg, "cancelled")
}

// IsUnitScopeError checks if the error came from a failed unit scope request
func IsUnitScopeError(err error) bool {
	var scopeErr *UnitScopeError
	return stderrors.As(err, &scopeErr)
}

// IsNoOffsetFound checks if the error reports a position past the end of a document
func IsNoOffsetFound(err error) bool {
	return stderrors.Is(err, ErrNoOffsetFound)
}

// WrapWithContext wraps an error with operation context
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// NewMissingParameterError reports a required parameter that was not sent
func NewMissingParameterError(parameter string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Message:   "required parameter is missing",
		Missing:   true,
	}
}

// WrapValidationError wraps an error as a validation error
func WrapValidationError(parameter string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{
		Parameter: parameter,
		Message:   err.Error(),
	}
}

// ToLSPError maps an error to the code reported over the wire
func ToLSPError(err error) *LSPError {
	if err == nil {
		return nil
	}
	var lspErr *LSPError
	if stderrors.As(err, &lspErr) {
		return lspErr
	}
	var valErr *ValidationError
	var notOpen *DocumentNotOpenError
	var stale *StaleVersionError
	var snapErr *SnapshotError
	var scopeErr *UnitScopeError
	switch {
	case IsCancellationError(err):
		return NewLSPError(RequestCancelled, GetErrorCodeMessage(RequestCancelled), nil)
	case stderrors.As(err, &notOpen):
		return NewLSPError(InvalidTextDocument, err.Error(), map[string]string{"path": notOpen.Path})
	case stderrors.As(err, &stale):
		return NewLSPError(ContentModified, err.Error(), map[string]string{"path": stale.Path})
	case stderrors.As(err, &valErr) && valErr.Missing:
		return NewLSPError(MissingParameter, err.Error(), map[string]string{"parameter": valErr.Parameter})
	case stderrors.As(err, &valErr) && valErr.Parameter == "uri":
		return NewLSPError(InvalidURI, err.Error(), nil)
	case stderrors.As(err, &valErr):
		return NewLSPError(InvalidParams, err.Error(), map[string]string{"parameter": valErr.Parameter})
	case IsNoOffsetFound(err):
		return NewLSPError(InvalidPosition, err.Error(), nil)
	case stderrors.As(err, &snapErr):
		return NewLSPError(SnapshotLoadFailure, err.Error(), map[string]string{"path": snapErr.Path})
	case stderrors.As(err, &scopeErr):
		return NewLSPError(UnitScopeFailure, err.Error(), map[string]string{"path": scopeErr.Path})
	}
	return NewLSPError(InternalError, err.Error(), nil)
}
