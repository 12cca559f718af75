package core

import (
	"errors"
	"fmt"
)

// ReportError represents a structured error with category and details
type ReportError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: metadata_missing, no_requests, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context (path, line, run)
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// Is matches any ReportError carrying the same code, so copies made with
// WithCause/WithMessage/WithDetails still compare equal to the predefined value.
func (e *ReportError) Is(target error) bool {
	var t *ReportError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ReportError) WithCause(cause error) *ReportError {
	return &ReportError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ReportError) WithMessage(msg string) *ReportError {
	return &ReportError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *ReportError) WithDetails(details map[string]interface{}) *ReportError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ReportError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// CategoryOf returns the category of the first ReportError in err's chain.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryNone
	}
	var re *ReportError
	if errors.As(err, &re) {
		return re.Category
	}
	return ErrCategoryNone
}

// Predefined errors
var (
	// Input errors
	ErrMetadataMissing = &ReportError{
		Category: ErrCategoryInput,
		Code:     "metadata_missing",
		Message:  "run metadata not found",
	}
	ErrEventLogMissing = &ReportError{
		Category: ErrCategoryInput,
		Code:     "event_log_missing",
		Message:  "run event log not found",
	}
	ErrRunNotFound = &ReportError{
		Category: ErrCategoryInput,
		Code:     "run_not_found",
		Message:  "run directory not found",
	}

	// Format errors
	ErrMetadataMalformed = &ReportError{
		Category: ErrCategoryFormat,
		Code:     "metadata_malformed",
		Message:  "run metadata is malformed",
	}
	ErrEventLogMalformed = &ReportError{
		Category: ErrCategoryFormat,
		Code:     "event_log_malformed",
		Message:  "run event log is malformed",
	}

	// Validation errors
	ErrNoRequests = &ReportError{
		Category: ErrCategoryValidation,
		Code:     "no_requests",
		Message:  "could not load data: total requests is 0",
	}
	ErrNoEvents = &ReportError{
		Category: ErrCategoryValidation,
		Code:     "no_events",
		Message:  "event log contains no records",
	}
	ErrUnknownField = &ReportError{
		Category: ErrCategoryValidation,
		Code:     "unknown_field",
		Message:  "unknown duration field",
	}

	// Render errors
	ErrRenderFailed = &ReportError{
		Category: ErrCategoryRender,
		Code:     "render_failed",
		Message:  "failed to render document",
	}

	// Unsupported capabilities
	ErrNotSupported = &ReportError{
		Category: ErrCategoryUnsupported,
		Code:     "not_supported",
		Message:  "not supported",
	}

	// Usage errors
	ErrUsage = &ReportError{
		Category: ErrCategoryUsage,
		Code:     "usage",
		Message:  "invalid arguments",
	}
	ErrInvalidRunName = &ReportError{
		Category: ErrCategoryUsage,
		Code:     "invalid_run_name",
		Message:  "invalid run name",
	}
	ErrInvalidConfig = &ReportError{
		Category: ErrCategoryUsage,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
)

// NewReportError creates a new ReportError with the given parameters
func NewReportError(category ErrorCategory, code, message string) *ReportError {
	return &ReportError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
