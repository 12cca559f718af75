package analysis

import (
	"github.com/devicelab-dev/perfreport/pkg/chart"
	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/run"
	"github.com/devicelab-dev/perfreport/pkg/stats"
)

// ThroughputResult holds the requests-per-second series and its statistics.
type ThroughputResult struct {
	PerSecond []Point `json:"perSecond" yaml:"perSecond"`
	Mean      float64 `json:"mean" yaml:"mean"`
	Std       float64 `json:"std" yaml:"std"`
	Min       float64 `json:"min" yaml:"min"`
	Max       float64 `json:"max" yaml:"max"`
}

// Total returns the number of events across all buckets.
func (r *ThroughputResult) Total() int {
	n := 0
	for _, p := range r.PerSecond {
		n += int(p.Value)
	}
	return n
}

// AnalyzeThroughput counts events per one-second bucket and appends a
// "Requests Per Second Analysis" section to rep. Seconds without events
// count as zero; statistics are rounded to two decimals.
func AnalyzeThroughput(rep *Report, events []run.Event, description string) (*ThroughputResult, error) {
	if len(events) == 0 {
		return nil, core.ErrNoEvents
	}

	starts := make([]int64, len(events))
	for i, e := range events {
		starts[i] = e.StartTime
	}

	buckets, err := stats.Resample(starts, nil)
	if err != nil {
		return nil, core.ErrEventLogMalformed.WithCause(err)
	}
	counts := stats.Counts(buckets)
	series := make([]Point, len(buckets))
	for i, b := range buckets {
		series[i] = Point{Elapsed: b.Elapsed, Value: counts[i]}
	}

	s := stats.Describe(counts).Rounded()
	res := &ThroughputResult{
		PerSecond: series,
		Mean:      s.Mean,
		Std:       s.Std,
		Min:       s.Min,
		Max:       s.Max,
	}

	rep.throughput = res
	rep.Add(Section{
		Title:       "Requests Per Second Analysis",
		Description: description,
		Summary:     res.rows(),
		Figure:      res.figure(),
	})
	return res, nil
}

func (r *ThroughputResult) rows() []Row {
	return []Row{
		{Label: "Mean Requests Per Second", Value: FormatNumber(r.Mean), Unit: "requests"},
		{Label: "Standard Deviation", Value: FormatNumber(r.Std), Unit: "requests"},
		{Label: "Maximum Requests Per Second", Value: FormatNumber(r.Max), Unit: "requests"},
		{Label: "Minimum Requests Per Second", Value: FormatNumber(r.Min), Unit: "requests"},
	}
}

func (r *ThroughputResult) figure() chart.Figure {
	xs := make([]float64, len(r.PerSecond))
	ys := make([]float64, len(r.PerSecond))
	for i, p := range r.PerSecond {
		xs[i] = float64(p.Elapsed)
		ys[i] = p.Value
	}
	return chart.Figure{
		Title: "Requests Per Second Analysis",
		Panels: []chart.Panel{{
			XTitle: "Time (seconds)",
			YTitle: "Requests Per Second",
			Line:   &chart.LineSeries{Name: "Requests Per Second", X: xs, Y: ys},
		}},
	}
}
