package core

import "testing"

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryInput, "input"},
		{ErrCategoryFormat, "format"},
		{ErrCategoryValidation, "validation"},
		{ErrCategoryRender, "render"},
		{ErrCategoryUnsupported, "unsupported"},
		{ErrCategoryUsage, "usage"},
		{ErrorCategory(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expected {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.expected)
		}
	}
}
