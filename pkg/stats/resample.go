package stats

import (
	"fmt"
	"time"
)

// BucketWidth is the resampling window, in nanoseconds.
const BucketWidth = int64(time.Second)

// Bucket is one resampling window.
type Bucket struct {
	Elapsed int64   // whole seconds since the first bucket
	Count   int     // samples that fell into the window
	Sum     float64 // sum of sample values
}

// Mean returns the mean sample value and false for an empty bucket.
func (b Bucket) Mean() (float64, bool) {
	if b.Count == 0 {
		return 0, false
	}
	return b.Sum / float64(b.Count), true
}

// MaxBuckets bounds the span Resample accepts: 31 days of windows.
const MaxBuckets = 31 * 24 * 60 * 60

// Span returns the number of windows Resample would produce for starts.
func Span(starts []int64) int64 {
	if len(starts) == 0 {
		return 0
	}
	first, last := window(starts)
	return last - first + 1
}

// Resample groups samples into contiguous one-second windows keyed by their
// timestamp floored to the whole second. The result spans every second from
// the earliest to the latest occupied window, including empty ones, and is
// re-indexed so the first window has Elapsed 0. starts and values are
// parallel slices; values may be nil when only counts are needed.
// Resample fails when the span exceeds MaxBuckets.
func Resample(starts []int64, values []int64) ([]Bucket, error) {
	if len(starts) == 0 {
		return nil, nil
	}

	first, last := window(starts)
	if n := last - first + 1; n > MaxBuckets {
		return nil, fmt.Errorf("start times span %d seconds, more than %d", n, MaxBuckets)
	}

	buckets := make([]Bucket, last-first+1)
	for i := range buckets {
		buckets[i].Elapsed = int64(i)
	}
	for i, ts := range starts {
		b := &buckets[floorDiv(ts, BucketWidth)-first]
		b.Count++
		if values != nil {
			b.Sum += float64(values[i])
		}
	}
	return buckets, nil
}

// window returns the first and last occupied window keys.
func window(starts []int64) (first, last int64) {
	first, last = floorDiv(starts[0], BucketWidth), floorDiv(starts[0], BucketWidth)
	for _, ts := range starts[1:] {
		k := floorDiv(ts, BucketWidth)
		if k < first {
			first = k
		}
		if k > last {
			last = k
		}
	}
	return first, last
}

// Counts returns the per-bucket sample counts as floats.
func Counts(buckets []Bucket) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = float64(b.Count)
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
