// Package validator checks run directories before reporting.
// Unlike run.Load it does not stop at the first problem: every run is
// inspected and all errors and warnings are collected.
package validator

import (
	"fmt"
	"os"
	"sort"

	"github.com/devicelab-dev/perfreport/pkg/run"
	"github.com/devicelab-dev/perfreport/pkg/stats"
)

// ValidationError represents a validation problem with its run.
type ValidationError struct {
	Run     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Run, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Runs lists the runs that can be reported, in validation order.
	Runs []string
	// Errors contains problems that prevent reporting.
	Errors []error
	// Warnings contains inconsistencies that do not prevent reporting.
	Warnings []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Validator validates run directories under a tests root.
type Validator struct {
	layout run.Layout
}

// New creates a new Validator.
func New(layout run.Layout) *Validator {
	return &Validator{layout: layout}
}

// Validate validates the named runs, or every directory under the tests
// root when no names are given.
func (v *Validator) Validate(names ...string) *Result {
	result := &Result{}

	if len(names) == 0 {
		var err error
		names, err = v.collectRuns()
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				Run:     v.layout.Root,
				Message: fmt.Sprintf("failed to scan directory: %v", err),
			})
			return result
		}
	}

	for _, name := range names {
		v.validateRun(name, result)
	}
	return result
}

// collectRuns lists the run directories under the root, sorted by name.
func (v *Validator) collectRuns() ([]string, error) {
	entries, err := os.ReadDir(v.layout.Root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if info, err := os.Stat(v.layout.RunDir(e.Name())); err == nil && info.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (v *Validator) validateRun(name string, result *Result) {
	fail := func(format string, args ...interface{}) {
		result.Errors = append(result.Errors, &ValidationError{Run: name, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(format string, args ...interface{}) {
		result.Warnings = append(result.Warnings, &ValidationError{Run: name, Message: fmt.Sprintf(format, args...)})
	}

	if err := run.ValidateName(name); err != nil {
		fail("%v", err)
		return
	}
	if info, err := os.Stat(v.layout.RunDir(name)); err != nil || !info.IsDir() {
		fail("run directory not found")
		return
	}

	valid := true

	meta, err := run.LoadMetadata(v.layout.MetadataPath(name))
	if err != nil {
		fail("%v", err)
		valid = false
	} else {
		if meta.TotalRequests == 0 {
			fail("total requests is 0")
			valid = false
		}
		if meta.SuccessfulRequests+meta.FailedRequests != meta.TotalRequests {
			warn("successful (%d) + failed (%d) requests do not add up to total (%d)",
				meta.SuccessfulRequests, meta.FailedRequests, meta.TotalRequests)
		}
	}

	events, err := run.LoadEvents(v.layout.EventsPath(name))
	switch {
	case err != nil:
		fail("%v", err)
		valid = false
	case len(events) == 0:
		fail("event log contains no records")
		valid = false
	default:
		v.checkEvents(events, warn)
		if n := span(events); n > stats.MaxBuckets {
			fail("start times span %d seconds, more than %d", n, stats.MaxBuckets)
			valid = false
		}
		if meta != nil && meta.TotalRequests != len(events) {
			warn("metadata reports %d requests, event log has %d records", meta.TotalRequests, len(events))
		}
	}

	if valid {
		result.Runs = append(result.Runs, name)
	}
}

func span(events []run.Event) int64 {
	starts := make([]int64, len(events))
	for i, e := range events {
		starts[i] = e.StartTime
	}
	return stats.Span(starts)
}

// checkEvents reports records whose timestamps or durations look wrong.
func (v *Validator) checkEvents(events []run.Event, warn func(string, ...interface{})) {
	var reversed, negative int
	for _, e := range events {
		if e.EndTime < e.StartTime {
			reversed++
		}
		if e.LookupDuration < 0 || e.RequestDuration < 0 {
			negative++
		}
	}
	if reversed > 0 {
		warn("%d records end before they start", reversed)
	}
	if negative > 0 {
		warn("%d records have negative durations", negative)
	}
}
