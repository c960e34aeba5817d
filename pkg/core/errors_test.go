package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Category: CategorySchema,
		Code:     "test_error",
		Message:  "test message",
	}
	assert.Equal(t, "test message", err.Error())
}

func TestError_ErrorWithLocation(t *testing.T) {
	err := ErrSchema.WithMessage("missing key: project").At("DIRSPEC.yaml", 3)
	assert.Equal(t, "DIRSPEC.yaml:3: missing key: project", err.Error())

	err = ErrNotFound.At("DIRSPEC.yaml", 0)
	assert.Equal(t, "DIRSPEC.yaml: spec document not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrParse.WithCause(cause)

	assert.Contains(t, err.Error(), "not valid YAML")
	assert.Contains(t, err.Error(), "underlying error")
	assert.Same(t, cause, err.Unwrap())
}

func TestError_WithHelpersDoNotMutateOriginal(t *testing.T) {
	original := ErrSchema
	modified := original.WithMessage("custom").WithCause(errors.New("x")).At("a.yaml", 9)

	assert.Equal(t, "spec document does not match the schema", original.Message)
	assert.Nil(t, original.Cause)
	assert.Empty(t, original.Path)
	assert.Equal(t, "custom", modified.Message)
	assert.Equal(t, original.Code, modified.Code)
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load: %w", ErrSchema.WithMessagef("stage %d missing id", 2))

	assert.True(t, errors.Is(err, ErrSchema))
	assert.False(t, errors.Is(err, ErrParse))

	var target *Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, CategorySchema, target.Category)
	assert.Equal(t, "stage 2 missing id", target.Message)
}

func TestErrorCategory_IsFatal(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		fatal    bool
	}{
		{CategoryNotFound, true},
		{CategoryParse, true},
		{CategorySchema, true},
		{CategoryMissingPath, false},
		{CategoryMissingDirectory, false},
		{CategoryPatternMismatch, false},
		{CategoryInvalidPattern, false},
		{CategoryMalformedEntry, false},
		{CategoryNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			assert.Equal(t, tt.fatal, tt.category.IsFatal())
		})
	}
}

func TestErrorCategory_String(t *testing.T) {
	assert.Equal(t, "pattern_mismatch", CategoryPatternMismatch.String())
	assert.Equal(t, "unknown", ErrorCategory(99).String())
}

func TestNewError(t *testing.T) {
	err := NewError(CategoryMissingDirectory, "gone", "it is gone")
	assert.False(t, err.IsFatal())
	assert.Equal(t, "gone", err.Code)
}

func TestWarning_String(t *testing.T) {
	w := Warning{Category: CategoryMissingPath, Stage: "raw", Message: "Dir spec without path; skipping"}
	assert.Equal(t, "Dir spec without path; skipping (stage raw)", w.String())

	w.Stage = ""
	assert.Equal(t, "Dir spec without path; skipping", w.String())
}

func TestCountByCategory(t *testing.T) {
	counts := CountByCategory([]Warning{
		{Category: CategoryPatternMismatch},
		{Category: CategoryPatternMismatch},
		{Category: CategoryMissingDirectory},
	})
	assert.Equal(t, 2, counts[CategoryPatternMismatch])
	assert.Equal(t, 1, counts[CategoryMissingDirectory])
	assert.Zero(t, counts[CategoryMissingPath])
}
