// Package report renders analysed runs to HTML.
//
// Layout under the tests root:
//   - <run>/report.html: one page per run, header plus one block per analysis section
//   - index.html: link cards for every run that has both metadata.json and report.html
//
// Both files are written atomically, so readers never observe a partial page.
package report

import (
	"html/template"
	"time"

	"github.com/devicelab-dev/perfreport/pkg/analysis"
	"github.com/devicelab-dev/perfreport/pkg/chart"
)

// TimeLayout is the display format for run start times.
const TimeLayout = "2006-01-02 15:04:05"

// NotAvailable is shown in the index for fields a run's metadata lacks.
const NotAvailable = "N/A"

// DefaultTailwindURL is the Tailwind CSS play CDN script.
const DefaultTailwindURL = "https://cdn.tailwindcss.com"

// ============================================================================
// RUN REPORT (report.html)
// ============================================================================

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	OutputPath  string         // Path to write the HTML file (default: <run dir>/report.html)
	Renderer    chart.Renderer // Chart backend (default: plotly)
	TailwindURL string         // Tailwind CSS script
	Location    *time.Location // Zone for the start time (default: UTC)
	ChartWidth  int            // Overrides figure width when > 0
	ChartHeight int            // Overrides figure height when > 0
}

// HTMLData contains all data needed for the report template.
type HTMLData struct {
	Title       string
	TailwindURL string
	ChartHead   template.HTML // Renderer-specific <head> markup
	Header      Header
	Sections    []SectionHTML
}

// Header is the run information block at the top of the report.
type Header struct {
	StartTime          string
	ServerURL          string
	Description        string
	ConcurrentRequests int
	Duration           int
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	RequestsPerSecond  string
}

// SectionHTML is an analysis section ready for the template.
type SectionHTML struct {
	ID          string
	Title       string
	Description string
	Summary     []analysis.Row
	Chart       template.HTML
}

// ============================================================================
// INDEX (index.html)
// ============================================================================

// IndexConfig contains configuration for index generation.
type IndexConfig struct {
	Title       string         // Page title (default: "Performance Tests")
	TailwindURL string         // Tailwind CSS script
	Location    *time.Location // Zone for start times (default: local)
}

// IndexData contains all data needed for the index template.
type IndexData struct {
	Title       string
	TailwindURL string
	Runs        []IndexCard
}

// IndexCard is one run's link card. Every field is display-ready.
type IndexCard struct {
	Name               string `json:"name" yaml:"name"`
	Href               string `json:"href" yaml:"href"`
	DisplayName        string `json:"displayName" yaml:"displayName"`
	ServerURL          string `json:"serverUrl" yaml:"serverUrl"`
	StartTime          string `json:"startTime" yaml:"startTime"`
	ConcurrentRequests string `json:"concurrentRequests" yaml:"concurrentRequests"`
	Duration           string `json:"duration" yaml:"duration"`
	TotalRequests      string `json:"totalRequests" yaml:"totalRequests"`
}
