// Package stats aggregates output of the detect-track engine over time:
// per-frame object counts over fixed windows and dwell time of evicted objects.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes object counts observed during one window
type Summary struct {
	Start   time.Time
	End     time.Time
	Samples int
	Mean    float64
	Min     float64
	Q1      float64
	Median  float64
	Q3      float64
	Max     float64
}

// CountWindow collects per-frame object counts and summarizes them once the window elapses
type CountWindow struct {
	size   time.Duration
	start  time.Time
	counts []float64
}

// NewCountWindow creates window of given duration
func NewCountWindow(size time.Duration) *CountWindow {
	return &CountWindow{
		size:   size,
		counts: make([]float64, 0),
	}
}

// Add records count observed at t. When more than the window size passed since the window started,
// it returns summary of the window and starts a new one at t.
func (window *CountWindow) Add(t time.Time, count int) (Summary, bool) {
	if window.start.IsZero() {
		window.start = t
	}
	window.counts = append(window.counts, float64(count))
	if t.Sub(window.start) <= window.size {
		return Summary{}, false
	}
	summary := summarize(window.start, t, window.counts)
	window.start = t
	window.counts = window.counts[:0]
	return summary, true
}

// Len returns number of counts in the current window
func (window *CountWindow) Len() int {
	return len(window.counts)
}

func summarize(start, end time.Time, counts []float64) Summary {
	sorted := make([]float64, len(counts))
	copy(sorted, counts)
	sort.Float64s(sorted)
	return Summary{
		Start:   start,
		End:     end,
		Samples: len(sorted),
		Mean:    stat.Mean(sorted, nil),
		Min:     sorted[0],
		Q1:      percentile(0.25, sorted),
		Median:  percentile(0.5, sorted),
		Q3:      percentile(0.75, sorted),
		Max:     sorted[len(sorted)-1],
	}
}

// percentile interpolates linearly between closest ranks at position p*(n-1), as numpy.percentile does.
// stat.LinInterp interpolates at position p*n-1, so p is rescaled to hit the same point.
func percentile(p float64, sorted []float64) float64 {
	n := float64(len(sorted))
	return stat.Quantile((p*(n-1)+1)/n, stat.LinInterp, sorted, nil)
}
