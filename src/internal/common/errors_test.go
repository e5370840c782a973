package common

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mxls/src/internal/errors"
)

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{context.Canceled, "cancellation"},
		{ParameterValidationError("bad"), "validation"},
		{fmt.Errorf("resolve: %w", errors.ErrNoOffsetFound), "position"},
		{errors.NewUnitScopeError("A.as", fmt.Errorf("boom")), "scope"},
		{fmt.Errorf("boom"), "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetErrorCategory(tt.err), "%v", tt.err)
	}
}

func TestWrapProcessingError(t *testing.T) {
	assert.NoError(t, WrapProcessingError("references", nil))
	err := WrapProcessingError("references", context.Canceled)
	assert.EqualError(t, err, "references: context canceled")
	assert.True(t, errors.IsCancellationError(err))
}

func TestSanitizeErrorForLogging(t *testing.T) {
	assert.Empty(t, SanitizeErrorForLogging(nil))
	assert.Equal(t, "boom", SanitizeErrorForLogging(fmt.Errorf("boom")))
	assert.Equal(t, "42", SanitizeErrorForLogging(42))

	long := SanitizeErrorForLogging(strings.Repeat("x", 500))
	assert.Len(t, long, 203)
	assert.True(t, strings.HasSuffix(long, "..."))
}
