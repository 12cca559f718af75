package analysis

import (
	"math"

	"github.com/devicelab-dev/perfreport/pkg/chart"
	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/run"
	"github.com/devicelab-dev/perfreport/pkg/stats"
)

// Point is one resampled second.
type Point struct {
	Elapsed int64   `json:"elapsed" yaml:"elapsed"`
	Value   float64 `json:"value" yaml:"value"`
	Empty   bool    `json:"empty,omitempty" yaml:"empty,omitempty"` // no events in this second; Value is 0
}

// LatencyResult holds the statistics of one duration field, in milliseconds.
type LatencyResult struct {
	Field       run.Field     `json:"field" yaml:"field"`
	DisplayName string        `json:"displayName" yaml:"displayName"`
	Summary     stats.Summary `json:"summary" yaml:"summary"`
	MinClientID string        `json:"minClientId" yaml:"minClientId"`
	MaxClientID string        `json:"maxClientId" yaml:"maxClientId"`
	PerSecond   []Point       `json:"perSecond" yaml:"perSecond"`
}

// AnalyzeLatency computes the statistics of field over events and appends
// a section titled "<displayName> Analysis" to rep.
//
// Summary statistics are computed over every event, truncated to whole
// nanoseconds, then converted to milliseconds. The per-second series holds
// the mean of each one-second bucket, converted without truncation.
func AnalyzeLatency(rep *Report, events []run.Event, field run.Field, displayName, description string) (*LatencyResult, error) {
	if _, err := run.ParseField(string(field)); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, core.ErrNoEvents
	}

	values := make([]int64, len(events))
	starts := make([]int64, len(events))
	for i, e := range events {
		values[i] = e.Duration(field)
		starts[i] = e.StartTime
	}

	summary := stats.Describe(stats.ToFloat(values)).Truncate()
	minIdx, maxIdx := stats.Extremes(values)
	summary = summary.Scale(stats.NanosPerMilli)

	buckets, err := stats.Resample(starts, values)
	if err != nil {
		return nil, core.ErrEventLogMalformed.WithCause(err)
	}
	series := make([]Point, len(buckets))
	for i, b := range buckets {
		mean, ok := b.Mean()
		if !ok {
			series[i] = Point{Elapsed: b.Elapsed, Empty: true}
			continue
		}
		series[i] = Point{Elapsed: b.Elapsed, Value: stats.NanosToMillis(mean)}
	}

	res := &LatencyResult{
		Field:       field,
		DisplayName: displayName,
		Summary:     summary,
		MinClientID: events[minIdx].ClientID,
		MaxClientID: events[maxIdx].ClientID,
		PerSecond:   series,
	}

	rep.latency = append(rep.latency, res)
	rep.Add(Section{
		Title:       displayName + " Analysis",
		Description: description,
		Summary:     res.rows(),
		Figure:      res.figure(),
	})
	return res, nil
}

func (r *LatencyResult) rows() []Row {
	s := r.Summary
	return []Row{
		{Label: "Mean Latency", Value: FormatNumber(s.Mean), Unit: "milliseconds"},
		{Label: "Standard Deviation", Value: FormatNumber(s.Std), Unit: "milliseconds"},
		{Label: "25th Percentile", Value: FormatNumber(s.P25), Unit: "milliseconds"},
		{Label: "50th Percentile", Value: FormatNumber(s.P50), Unit: "milliseconds"},
		{Label: "75th Percentile", Value: FormatNumber(s.P75), Unit: "milliseconds"},
		{Label: "Request with lowest latency", Value: FormatNumber(s.Min), Unit: "milliseconds"},
		{Label: "IP address of the request with lowest latency", Value: r.MinClientID},
		{Label: "Request with highest latency", Value: FormatNumber(s.Max), Unit: "milliseconds"},
		{Label: "IP address of the request with highest latency", Value: r.MaxClientID},
	}
}

func (r *LatencyResult) figure() chart.Figure {
	xs := make([]float64, len(r.PerSecond))
	ys := make([]float64, len(r.PerSecond))
	for i, p := range r.PerSecond {
		xs[i] = float64(p.Elapsed)
		if p.Empty {
			ys[i] = math.NaN()
		} else {
			ys[i] = p.Value
		}
	}
	yTitle := r.DisplayName + "(ms)"
	s := r.Summary
	return chart.Figure{
		Title: r.DisplayName + " Analysis",
		Panels: []chart.Panel{
			{
				Title:  "Mean " + r.DisplayName + " Per Second",
				XTitle: "Time (seconds)",
				YTitle: yTitle,
				Line:   &chart.LineSeries{Name: "Mean " + r.DisplayName, X: xs, Y: ys},
			},
			{
				Title:  "Summary Information",
				XTitle: "Statistic",
				YTitle: yTitle,
				Bars: &chart.BarSeries{
					Name:   "Summary Information",
					Labels: []string{"25%", "50%", "75%"},
					Values: []float64{s.P25, s.P50, s.P75},
					Colors: []string{"blue", "yellow", "red"},
				},
			},
		},
	}
}
