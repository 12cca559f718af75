// Package analysis turns a run's event log into report sections.
//
// A Report is an explicit accumulator owned by one report build: analyzers
// append to it in call order and the renderer reads the sections back in
// the same order.
package analysis

import (
	"strconv"

	"github.com/devicelab-dev/perfreport/pkg/chart"
)

// Row is one line of a section summary: "Label: <b>Value</b> Unit".
type Row struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Section is one analysis block of the report.
type Section struct {
	Title       string
	Description string
	Summary     []Row
	Figure      chart.Figure
}

// Report accumulates sections and the typed results behind them.
type Report struct {
	sections   []Section
	latency    []*LatencyResult
	throughput *ThroughputResult
}

// NewReport returns an empty accumulator.
func NewReport() *Report {
	return &Report{}
}

// Add appends a section.
func (r *Report) Add(s Section) {
	r.sections = append(r.sections, s)
}

// Sections returns the sections in the order they were added.
func (r *Report) Sections() []Section {
	out := make([]Section, len(r.sections))
	copy(out, r.sections)
	return out
}

// Len returns the number of sections.
func (r *Report) Len() int {
	return len(r.sections)
}

// Latency returns the latency results in analysis order.
func (r *Report) Latency() []*LatencyResult {
	return r.latency
}

// Throughput returns the throughput result, or nil if it was not analyzed.
func (r *Report) Throughput() *ThroughputResult {
	return r.throughput
}

// FormatNumber prints v with the shortest exact representation, keeping a
// trailing ".0" on whole numbers.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
