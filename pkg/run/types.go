// Package run describes one executed load test on disk.
//
// Layout:
//   - <root>/<name>/metadata.json: run-level counters written by the load generator
//   - <root>/<name>/data.csv: one header-less row per processed request
//   - <root>/<name>/report.html: generated report
//   - <root>/index.html: generated index of all runs
package run

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/perfreport/pkg/core"
)

// File names inside a run directory and the tests root.
const (
	MetadataFile = "metadata.json"
	EventsFile   = "data.csv"
	ReportFile   = "report.html"
	IndexFile    = "index.html"
)

// Metadata is the run-level record written once by the load generator.
type Metadata struct {
	ServerURL          string  `json:"server_url" yaml:"serverUrl"`
	TestUniqueName     string  `json:"test_unique_name" yaml:"testUniqueName"`
	TestDisplayName    string  `json:"test_display_name" yaml:"testDisplayName"`
	TestDescription    string  `json:"test_description" yaml:"testDescription"`
	Folder             string  `json:"folder,omitempty" yaml:"folder,omitempty"`
	ConcurrentRequests int     `json:"concurrent_requests" yaml:"concurrentRequests"`
	TestDuration       int     `json:"test_duration" yaml:"testDuration"` // seconds
	TotalRequests      int     `json:"total_requests" yaml:"totalRequests"`
	SuccessfulRequests int     `json:"successful_requests" yaml:"successfulRequests"`
	FailedRequests     int     `json:"failed_requests" yaml:"failedRequests"`
	RequestsPerSecond  float64 `json:"requests_per_second" yaml:"requestsPerSecond"`
	TestStartTime      int64   `json:"test_start_time" yaml:"testStartTime"` // ns since epoch
}

// StartTime returns the test start time as a time.Time in UTC.
func (m *Metadata) StartTime() time.Time {
	return time.Unix(0, m.TestStartTime).UTC()
}

// Event is one processed request.
type Event struct {
	ClientID        string // IP address sent by the load generator
	Occurrences     int    // times the server had already seen ClientID
	LookupDuration  int64  // ns
	RequestDuration int64  // ns
	StartTime       int64  // ns since epoch
	EndTime         int64  // ns since epoch
}

// Field names a duration column of the event log.
type Field string

// Duration fields that can be analyzed.
const (
	FieldLookupDuration  Field = "LookupDuration"
	FieldRequestDuration Field = "RequestDuration"
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldLookupDuration, FieldRequestDuration:
		return Field(s), nil
	default:
		return "", core.ErrUnknownField.WithDetails(map[string]interface{}{"field": s})
	}
}

// Duration returns the value of field f for the event, in nanoseconds.
func (e Event) Duration(f Field) int64 {
	switch f {
	case FieldLookupDuration:
		return e.LookupDuration
	case FieldRequestDuration:
		return e.RequestDuration
	default:
		panic(fmt.Sprintf("run: unknown field %q", f))
	}
}

// Run is a loaded run: metadata plus the full event log, in file order.
type Run struct {
	Name     string
	Dir      string
	Metadata *Metadata
	Events   []Event
}
