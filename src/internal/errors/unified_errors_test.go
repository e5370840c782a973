package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLSPError(t *testing.T) {
	err := NewLSPError(-32601, "Method not found", map[string]string{"method": "test"})

	assert.Equal(t, -32601, err.Code)
	assert.Equal(t, "LSP error -32601: Method not found (data: map[method:test])", err.Error())
	assert.Equal(t, "LSP error -32601: Method not found", NewLSPError(-32601, "Method not found", nil).Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("uri", "URI cannot be empty")

	assert.Equal(t, "uri", err.Parameter)
	assert.Equal(t, "validation error for parameter 'uri': URI cannot be empty", err.Error())
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(WrapValidationError("position", stderrors.New("negative line"))))
	assert.False(t, IsValidationError(nil))
}

func TestUnitScopeError(t *testing.T) {
	cause := stderrors.New("compiler interrupted")
	err := fmt.Errorf("search: %w", NewUnitScopeError("/src/A.as", cause))

	assert.True(t, IsUnitScopeError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "scope unavailable for /src/A.as")
	assert.False(t, IsUnitScopeError(cause))
}

func TestIsCancellationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, true},
		{"wrapped canceled", fmt.Errorf("references: %w", context.Canceled), true},
		{"deadline", context.DeadlineExceeded, true},
		{"message", stderrors.New("request cancelled by client"), true},
		{"other", stderrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCancellationError(tt.err))
		})
	}
}

func TestToLSPError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"cancelled", context.Canceled, RequestCancelled},
		{"not open", NewDocumentNotOpenError("/a.as"), InvalidTextDocument},
		{"validation", NewValidationError("position", "negative"), InvalidParams},
		{"bad uri", NewValidationError("uri", "empty"), InvalidURI},
		{"missing", fmt.Errorf("decode: %w", NewMissingParameterError("params")), MissingParameter},
		{"stale", NewStaleVersionError("/a.as", 3, 2), ContentModified},
		{"scope", NewUnitScopeError("/a.as", stderrors.New("no scope")), UnitScopeFailure},
		{"no offset", fmt.Errorf("resolve: %w", ErrNoOffsetFound), InvalidPosition},
		{"snapshot", NewSnapshotError("/model.json", stderrors.New("bad json")), SnapshotLoadFailure},
		{"passthrough", NewLSPError(MethodNotFound, "nope", nil), MethodNotFound},
		{"unknown", stderrors.New("boom"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lspErr := ToLSPError(tt.err)
			require.NotNil(t, lspErr)
			assert.Equal(t, tt.code, lspErr.Code)
		})
	}

	assert.Nil(t, ToLSPError(nil))
}

func TestGetErrorCodeCategory(t *testing.T) {
	assert.Equal(t, CategoryJSONRPC, GetErrorCodeCategory(ParseError))
	assert.Equal(t, CategoryLSP, GetErrorCodeCategory(RequestCancelled))
	assert.Equal(t, CategoryValidation, GetErrorCodeCategory(InvalidPosition))
	assert.Equal(t, CategoryModel, GetErrorCodeCategory(SnapshotLoadFailure))
	assert.Equal(t, CategoryLSP, GetErrorCodeCategory(ContentModified))
	assert.Equal(t, CategoryValidation, GetErrorCodeCategory(MissingParameter))
	assert.Equal(t, CategoryUnknown, GetErrorCodeCategory(1))
	assert.Equal(t, "Request cancelled", GetErrorCodeMessage(RequestCancelled))
	assert.Equal(t, "Unknown error", GetErrorCodeMessage(42))
}
