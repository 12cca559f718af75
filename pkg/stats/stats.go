// Package stats holds the numeric helpers behind the latency and
// throughput analyses: unit conversion, descriptive statistics, extreme
// lookup and one-second resampling.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NanosPerMilli is the divisor used for every ns to ms conversion.
const NanosPerMilli = 1_000_000

// NanosToMillis converts nanoseconds to milliseconds by exact division.
func NanosToMillis(ns float64) float64 {
	return ns / NanosPerMilli
}

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Summary is a describe()-style set of descriptive statistics.
type Summary struct {
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Min   float64 `json:"min" yaml:"min"`
	P25   float64 `json:"p25" yaml:"p25"`
	P50   float64 `json:"p50" yaml:"p50"`
	P75   float64 `json:"p75" yaml:"p75"`
	Max   float64 `json:"max" yaml:"max"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max of values. values is not modified. The standard deviation of
// fewer than two values is 0. An empty input yields a zero Summary.
func Describe(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count: n,
		Mean:  stat.Mean(sorted, nil),
		Min:   sorted[0],
		P25:   Quantile(sorted, 0.25),
		P50:   Quantile(sorted, 0.50),
		P75:   Quantile(sorted, 0.75),
		Max:   sorted[n-1],
	}
	if n > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// Quantile returns the p-quantile of an ascending slice using linear
// interpolation between the two closest ranks (position p*(n-1)).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Truncate drops the fractional part of every statistic, toward zero.
// Latency summaries are truncated to whole nanoseconds before they are
// converted to milliseconds.
func (s Summary) Truncate() Summary {
	return Summary{
		Count: s.Count,
		Mean:  math.Trunc(s.Mean),
		Std:   math.Trunc(s.Std),
		Min:   math.Trunc(s.Min),
		P25:   math.Trunc(s.P25),
		P50:   math.Trunc(s.P50),
		P75:   math.Trunc(s.P75),
		Max:   math.Trunc(s.Max),
	}
}

// Scale divides every statistic except Count by div.
func (s Summary) Scale(div float64) Summary {
	return Summary{
		Count: s.Count,
		Mean:  s.Mean / div,
		Std:   s.Std / div,
		Min:   s.Min / div,
		P25:   s.P25 / div,
		P50:   s.P50 / div,
		P75:   s.P75 / div,
		Max:   s.Max / div,
	}
}

// Rounded applies Round2 to every statistic.
func (s Summary) Rounded() Summary {
	return Summary{
		Count: s.Count,
		Mean:  Round2(s.Mean),
		Std:   Round2(s.Std),
		Min:   Round2(s.Min),
		P25:   Round2(s.P25),
		P50:   Round2(s.P50),
		P75:   Round2(s.P75),
		Max:   Round2(s.Max),
	}
}

// Extremes returns the indexes of the first minimum and the first maximum
// of values, or -1, -1 when values is empty.
func Extremes(values []int64) (minIdx, maxIdx int) {
	if len(values) == 0 {
		return -1, -1
	}
	for i, v := range values {
		if i == 0 || v < values[minIdx] {
			minIdx = i
		}
		if i == 0 || v > values[maxIdx] {
			maxIdx = i
		}
	}
	return minIdx, maxIdx
}

// ToFloat converts int64 samples to float64.
func ToFloat(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
