package analysis

import (
	"fmt"

	"github.com/devicelab-dev/perfreport/pkg/run"
)

// Section descriptions used by the standard report.
const (
	ThroughputDescription = "This represents the number of requests processed by the server per second."

	LookupDescription = "This represents the lookup duration of the client's ip in the server. " +
		"In this test, the server is storing the ip addresses in a hash table along with the number of requests made by this ip."

	RequestDescription = "This represents the whole request duration from the moment the request is received by the server " +
		"until the response is sent back to the client."
)

// Standard runs the standard analyses in report order: requests per second,
// lookup duration, request duration.
func Standard(events []run.Event) (*Report, error) {
	rep := NewReport()

	if _, err := AnalyzeThroughput(rep, events, ThroughputDescription); err != nil {
		return nil, fmt.Errorf("analyze throughput: %w", err)
	}
	if _, err := AnalyzeLatency(rep, events, run.FieldLookupDuration, "Lookup Duration", LookupDescription); err != nil {
		return nil, fmt.Errorf("analyze lookup duration: %w", err)
	}
	if _, err := AnalyzeLatency(rep, events, run.FieldRequestDuration, "Request Duration", RequestDescription); err != nil {
		return nil, fmt.Errorf("analyze request duration: %w", err)
	}
	return rep, nil
}
