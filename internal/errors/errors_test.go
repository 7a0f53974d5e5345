package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		expected string
	}{
		{
			name:     "error without cause",
			err:      ConfigError("configuration invalid").Build(),
			expected: "[config:fatal] configuration invalid",
		},
		{
			name:     "error with cause",
			err:      WrapError(fmt.Errorf("file not found"), CategoryContent, "read page").Build(),
			expected: "[content:error] read page: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestBuilderContext_IsPerError(t *testing.T) {
	a := NotFoundError("page not found").WithContext("route", "/docs/a").Build()
	b := NotFoundError("page not found").WithContext("route", "/docs/b").WithContext("file", "b.md").Build()

	assert.Len(t, a.Context(), 1)
	assert.Equal(t, "/docs/a", a.Context()["route"])
	assert.Equal(t, "b.md", b.Context()["file"])
	assert.Equal(t, SeverityWarning, a.Severity())
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := NotFoundError("page not found").Build()
	wrapped := fmt.Errorf("resolve: %w", inner)

	c, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryNotFound, c.Category())
	assert.True(t, HasCategory(wrapped, CategoryNotFound))
	assert.False(t, HasCategory(stderrors.New("plain"), CategoryNotFound))
}

func TestGetCategory_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	assert.Equal(t, CategoryRender, GetCategory(NewError(CategoryRender, "x").Build()))
}

func TestIs_ComparesCategoryAndMessage(t *testing.T) {
	a := ValidationError("duplicate path").WithContext("path", "/docs/a").Build()
	b := ValidationError("duplicate path").Build()
	c := ConfigError("duplicate path").Build()

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}
