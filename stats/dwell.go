package stats

import (
	"github.com/LdDl/detect-track-go/mot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DwellAccumulator collects tracked durations of evicted objects
type DwellAccumulator struct {
	seconds []float64
}

// NewDwellAccumulator creates empty accumulator
func NewDwellAccumulator() *DwellAccumulator {
	return &DwellAccumulator{
		seconds: make([]float64, 0),
	}
}

// Add records eviction records
func (acc *DwellAccumulator) Add(records ...mot.EvictionRecord) {
	for _, record := range records {
		acc.seconds = append(acc.seconds, record.ElapsedSeconds)
	}
}

// Count returns number of recorded evictions
func (acc *DwellAccumulator) Count() int {
	return len(acc.seconds)
}

// MeanSeconds returns mean tracked duration. Zero if nothing was recorded
func (acc *DwellAccumulator) MeanSeconds() float64 {
	if len(acc.seconds) == 0 {
		return 0
	}
	return stat.Mean(acc.seconds, nil)
}

// MaxSeconds returns the longest tracked duration. Zero if nothing was recorded
func (acc *DwellAccumulator) MaxSeconds() float64 {
	if len(acc.seconds) == 0 {
		return 0
	}
	return floats.Max(acc.seconds)
}

// TotalSeconds returns sum of tracked durations
func (acc *DwellAccumulator) TotalSeconds() float64 {
	return floats.Sum(acc.seconds)
}

// Reset forgets recorded evictions
func (acc *DwellAccumulator) Reset() {
	acc.seconds = acc.seconds[:0]
}
