package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devicelab-dev/perfreport/pkg/run"
)

const base = int64(1_700_000_000_000_000_000)

func writeRun(t *testing.T, root, name string, total int, events []run.Event) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	meta := &run.Metadata{
		TestUniqueName:     name,
		TestDisplayName:    name,
		TotalRequests:      total,
		SuccessfulRequests: total,
		TestStartTime:      base,
	}
	if err := run.WriteMetadata(dir, meta); err != nil {
		t.Fatal(err)
	}
	if err := run.WriteEvents(dir, events); err != nil {
		t.Fatal(err)
	}
}

func goodEvents() []run.Event {
	return []run.Event{
		{ClientID: "a", LookupDuration: 10, RequestDuration: 100, StartTime: base, EndTime: base + 100},
		{ClientID: "b", LookupDuration: 20, RequestDuration: 200, StartTime: base + 1e9, EndTime: base + 1e9 + 200},
	}
}

func containsError(errs []error, substr string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidate_ValidRun(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "good", 2, goodEvents())

	result := New(run.NewLayout(root)).Validate("good")

	if !result.IsValid() {
		t.Errorf("expected valid result, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if len(result.Runs) != 1 || result.Runs[0] != "good" {
		t.Errorf("expected [good], got %v", result.Runs)
	}
}

func TestValidate_AllRunsCollectsEveryError(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "a-good", 2, goodEvents())
	writeRun(t, root, "b-zero", 0, nil)
	writeRun(t, root, "c-empty", 5, nil)

	if err := os.MkdirAll(filepath.Join(root, "d-bare"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := New(run.NewLayout(root)).Validate()

	if result.IsValid() {
		t.Fatal("expected errors")
	}
	if len(result.Runs) != 1 || result.Runs[0] != "a-good" {
		t.Errorf("expected only a-good to be reportable, got %v", result.Runs)
	}
	for _, want := range []string{
		"b-zero: total requests is 0",
		"c-empty: event log contains no records",
		"d-bare: run metadata not found",
		"d-bare: run event log not found",
	} {
		if !containsError(result.Errors, want) {
			t.Errorf("missing error %q in %v", want, result.Errors)
		}
	}
}

func TestValidate_AllRunsFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	writeRun(t, elsewhere, "linked", 2, goodEvents())
	if err := os.Symlink(filepath.Join(elsewhere, "linked"), filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	result := New(run.NewLayout(root)).Validate()

	if !result.IsValid() {
		t.Errorf("expected valid result, got errors: %v", result.Errors)
	}
	if len(result.Runs) != 1 || result.Runs[0] != "linked" {
		t.Errorf("expected [linked], got %v", result.Runs)
	}
}

func TestValidate_Warnings(t *testing.T) {
	root := t.TempDir()
	events := goodEvents()
	events[1].EndTime = events[1].StartTime - 1
	events[0].LookupDuration = -5
	writeRun(t, root, "odd", 3, events)

	result := New(run.NewLayout(root)).Validate("odd")

	if !result.IsValid() {
		t.Fatalf("warnings must not invalidate the run: %v", result.Errors)
	}
	for _, want := range []string{
		"1 records end before they start",
		"1 records have negative durations",
		"metadata reports 3 requests, event log has 2 records",
	} {
		if !containsError(result.Warnings, want) {
			t.Errorf("missing warning %q in %v", want, result.Warnings)
		}
	}
}

func TestValidate_CorruptStartTime(t *testing.T) {
	root := t.TempDir()
	events := goodEvents()
	events[0].StartTime = 0
	events[0].EndTime = 100
	writeRun(t, root, "corrupt", 2, events)

	result := New(run.NewLayout(root)).Validate("corrupt")

	if result.IsValid() {
		t.Fatal("expected error for a start time far outside the run")
	}
	if !containsError(result.Errors, "corrupt: start times span") {
		t.Errorf("missing span error: %v", result.Errors)
	}
	if len(result.Runs) != 0 {
		t.Errorf("corrupt run must not be reportable, got %v", result.Runs)
	}
}

func TestValidate_MalformedEventLog(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "bad-csv", 1, nil)
	if err := os.WriteFile(filepath.Join(root, "bad-csv", run.EventsFile), []byte("a,1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := New(run.NewLayout(root)).Validate("bad-csv")

	if !containsError(result.Errors, "malformed") {
		t.Errorf("expected malformed error, got %v", result.Errors)
	}
}

func TestValidate_InvalidNameAndMissingRun(t *testing.T) {
	result := New(run.NewLayout(t.TempDir())).Validate("../escape", "missing")

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if !containsError(result.Errors, "invalid run name") {
		t.Errorf("missing invalid name error: %v", result.Errors)
	}
	if !containsError(result.Errors, "missing: run directory not found") {
		t.Errorf("missing not-found error: %v", result.Errors)
	}
}

func TestValidate_MissingRoot(t *testing.T) {
	result := New(run.NewLayout(filepath.Join(t.TempDir(), "nope"))).Validate()

	if result.IsValid() {
		t.Error("expected error for missing tests root")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Run: "r1", Message: "broken"}
	if err.Error() != "r1: broken" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
