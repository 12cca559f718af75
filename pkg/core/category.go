// Package core provides the error model shared by the perfreport packages.
package core

// ErrorCategory classifies a failure for logging and exit handling
type ErrorCategory int

const (
	ErrCategoryNone        ErrorCategory = iota // No error
	ErrCategoryInput                            // Input file missing or unreadable
	ErrCategoryFormat                           // Input file present but malformed
	ErrCategoryValidation                       // Input parsed but unusable (e.g. zero requests)
	ErrCategoryRender                           // Template or chart rendering failed
	ErrCategoryUnsupported                      // Capability intentionally not provided
	ErrCategoryUsage                            // Bad command-line arguments
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryInput:
		return "input"
	case ErrCategoryFormat:
		return "format"
	case ErrCategoryValidation:
		return "validation"
	case ErrCategoryRender:
		return "render"
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategoryUsage:
		return "usage"
	default:
		return "unknown"
	}
}
