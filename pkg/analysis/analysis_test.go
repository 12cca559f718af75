package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

const base = int64(1_700_000_000_000_000_000)

func sampleEvents() []run.Event {
	return []run.Event{
		{ClientID: "10.0.0.1", Occurrences: 1, LookupDuration: 10, RequestDuration: 1_000_000, StartTime: base, EndTime: base + 1_000_000},
		{ClientID: "10.0.0.2", Occurrences: 1, LookupDuration: 20, RequestDuration: 2_000_000, StartTime: base + 500_000_000, EndTime: base + 502_000_000},
		{ClientID: "10.0.0.3", Occurrences: 2, LookupDuration: 30, RequestDuration: 3_000_000, StartTime: base + 2_100_000_000, EndTime: base + 2_103_000_000},
	}
}

func TestAnalyzeLatency(t *testing.T) {
	rep := NewReport()
	res, err := AnalyzeLatency(rep, sampleEvents(), run.FieldRequestDuration, "Request Duration", "desc")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Summary.Count)
	assert.Equal(t, 2.0, res.Summary.Mean)
	assert.Equal(t, 1.0, res.Summary.Std)
	assert.Equal(t, 1.0, res.Summary.Min)
	assert.Equal(t, 1.5, res.Summary.P25)
	assert.Equal(t, 2.0, res.Summary.P50)
	assert.Equal(t, 2.5, res.Summary.P75)
	assert.Equal(t, 3.0, res.Summary.Max)
	assert.Equal(t, "10.0.0.1", res.MinClientID)
	assert.Equal(t, "10.0.0.3", res.MaxClientID)

	require.Len(t, res.PerSecond, 3)
	assert.Equal(t, Point{Elapsed: 0, Value: 1.5}, res.PerSecond[0])
	assert.True(t, res.PerSecond[1].Empty)
	assert.Equal(t, Point{Elapsed: 2, Value: 3}, res.PerSecond[2])

	require.Equal(t, 1, rep.Len())
	sec := rep.Sections()[0]
	assert.Equal(t, "Request Duration Analysis", sec.Title)
	assert.Equal(t, "desc", sec.Description)
	require.Len(t, sec.Summary, 9)
	assert.Equal(t, Row{Label: "Mean Latency", Value: "2.0", Unit: "milliseconds"}, sec.Summary[0])
	assert.Equal(t, Row{Label: "IP address of the request with lowest latency", Value: "10.0.0.1"}, sec.Summary[6])
	assert.Equal(t, Row{Label: "IP address of the request with highest latency", Value: "10.0.0.3"}, sec.Summary[8])

	require.Len(t, sec.Figure.Panels, 2)
	line := sec.Figure.Panels[0].Line
	require.NotNil(t, line)
	assert.True(t, math.IsNaN(line.Y[1]))
	assert.Equal(t, "Request Duration(ms)", sec.Figure.Panels[0].YTitle)
	bars := sec.Figure.Panels[1].Bars
	require.NotNil(t, bars)
	assert.Equal(t, []float64{1.5, 2.0, 2.5}, bars.Values)
	assert.NoError(t, sec.Figure.Validate())
}

func TestAnalyzeLatency_DuplicateExtremesUseFirst(t *testing.T) {
	events := []run.Event{
		{ClientID: "a", RequestDuration: 5_000_000, StartTime: base},
		{ClientID: "b", RequestDuration: 1_000_000, StartTime: base},
		{ClientID: "c", RequestDuration: 1_000_000, StartTime: base},
		{ClientID: "d", RequestDuration: 5_000_000, StartTime: base},
	}
	res, err := AnalyzeLatency(NewReport(), events, run.FieldRequestDuration, "Request Duration", "")
	require.NoError(t, err)
	assert.Equal(t, "b", res.MinClientID)
	assert.Equal(t, "a", res.MaxClientID)
}

func TestAnalyzeLatency_TruncatesNanoseconds(t *testing.T) {
	events := []run.Event{
		{ClientID: "a", LookupDuration: 1, StartTime: base},
		{ClientID: "b", LookupDuration: 2, StartTime: base},
	}
	res, err := AnalyzeLatency(NewReport(), events, run.FieldLookupDuration, "Lookup Duration", "")
	require.NoError(t, err)
	// mean 1.5ns truncates to 1ns
	assert.Equal(t, 1e-6, res.Summary.Mean)
}

func TestAnalyzeLatency_Errors(t *testing.T) {
	_, err := AnalyzeLatency(NewReport(), sampleEvents(), run.Field("Bogus"), "Bogus", "")
	assert.True(t, errors.Is(err, core.ErrUnknownField))

	_, err = AnalyzeLatency(NewReport(), nil, run.FieldRequestDuration, "Request Duration", "")
	assert.True(t, errors.Is(err, core.ErrNoEvents))
}

func TestAnalyze_CorruptStartTime(t *testing.T) {
	events := sampleEvents()
	events[1].StartTime = 0

	rep := NewReport()
	_, err := AnalyzeLatency(rep, events, run.FieldRequestDuration, "Request Duration", "")
	assert.True(t, errors.Is(err, core.ErrEventLogMalformed))

	_, err = AnalyzeThroughput(rep, events, "")
	assert.True(t, errors.Is(err, core.ErrEventLogMalformed))
	assert.Equal(t, 0, rep.Len())

	_, err = Standard(events)
	assert.True(t, errors.Is(err, core.ErrEventLogMalformed))
}

func TestAnalyzeThroughput(t *testing.T) {
	rep := NewReport()
	res, err := AnalyzeThroughput(rep, sampleEvents(), "desc")
	require.NoError(t, err)

	require.Len(t, res.PerSecond, 3)
	assert.Equal(t, []float64{2, 0, 1}, []float64{res.PerSecond[0].Value, res.PerSecond[1].Value, res.PerSecond[2].Value})
	assert.Equal(t, 3, res.Total())
	assert.Equal(t, 1.0, res.Mean)
	assert.Equal(t, 1.0, res.Std)
	assert.Equal(t, 0.0, res.Min)
	assert.Equal(t, 2.0, res.Max)

	sec := rep.Sections()[0]
	assert.Equal(t, "Requests Per Second Analysis", sec.Title)
	require.Len(t, sec.Summary, 4)
	assert.Equal(t, Row{Label: "Mean Requests Per Second", Value: "1.0", Unit: "requests"}, sec.Summary[0])
	require.Len(t, sec.Figure.Panels, 1)
	assert.Equal(t, "Requests Per Second", sec.Figure.Panels[0].YTitle)
}

func TestAnalyzeThroughput_OnePerSecond(t *testing.T) {
	const seconds = 30
	events := make([]run.Event, seconds)
	for i := range events {
		events[i] = run.Event{ClientID: "x", StartTime: base + int64(i)*1_000_000_000}
	}
	res, err := AnalyzeThroughput(NewReport(), events, "")
	require.NoError(t, err)
	assert.Len(t, res.PerSecond, seconds)
	assert.Equal(t, seconds, res.Total())
	assert.Equal(t, 1.0, res.Mean)
	assert.Equal(t, 0.0, res.Std)
}

func TestAnalyzeThroughput_RoundsToTwoDecimals(t *testing.T) {
	// counts 1, 1, 2 -> mean 1.333..., std 0.577...
	events := []run.Event{
		{StartTime: base},
		{StartTime: base + 1_000_000_000},
		{StartTime: base + 2_000_000_000},
		{StartTime: base + 2_500_000_000},
	}
	res, err := AnalyzeThroughput(NewReport(), events, "")
	require.NoError(t, err)
	assert.Equal(t, 1.33, res.Mean)
	assert.Equal(t, 0.58, res.Std)
}

func TestStandard(t *testing.T) {
	rep, err := Standard(sampleEvents())
	require.NoError(t, err)

	titles := make([]string, 0, rep.Len())
	for _, s := range rep.Sections() {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Requests Per Second Analysis",
		"Lookup Duration Analysis",
		"Request Duration Analysis",
	}, titles)
	require.NotNil(t, rep.Throughput())
	require.Len(t, rep.Latency(), 2)
	assert.Equal(t, run.FieldLookupDuration, rep.Latency()[0].Field)
	assert.Equal(t, RequestDescription, rep.Sections()[2].Description)

	_, err = Standard(nil)
	assert.True(t, errors.Is(err, core.ErrNoEvents))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2.0", FormatNumber(2))
	assert.Equal(t, "1.5", FormatNumber(1.5))
	assert.Equal(t, "0.00002", FormatNumber(0.00002))
	assert.Equal(t, "1234.56", FormatNumber(1234.56))
}
