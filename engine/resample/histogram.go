package resample

import (
	"statbook/internal/errors"
)

// HistogramBin is one bin with explicit edges; Right is exclusive except for
// the final bin, which also takes values equal to its right edge.
type HistogramBin struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	Count int     `json:"count"`
}

// Histogram bins values into binCount equal-width bins over the data range.
// An empty input yields an empty bin set; a single-valued input yields one
// degenerate range widened to a unit interval so bin widths stay positive.
func Histogram(values []float64, binCount int) ([]HistogramBin, error) {
	if binCount <= 0 {
		return nil, errors.InvalidConfig("bin count must be positive")
	}
	if len(values) == 0 {
		return []HistogramBin{}, nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		min -= 0.5
		max += 0.5
	}
	return HistogramRange(values, binCount, min, max)
}

// HistogramRange bins values into binCount equal-width bins over a fixed
// [min, max] range. Values outside the range are dropped; the lessons use a
// fixed range when animating a growing replicate set so bins stay put.
func HistogramRange(values []float64, binCount int, min, max float64) ([]HistogramBin, error) {
	if binCount <= 0 {
		return nil, errors.InvalidConfig("bin count must be positive")
	}
	if max <= min {
		return nil, errors.InvalidConfig("histogram range must have max > min")
	}
	width := (max - min) / float64(binCount)
	bins := make([]HistogramBin, binCount)
	for i := range bins {
		bins[i].Left = min + float64(i)*width
		bins[i].Right = min + float64(i+1)*width
	}
	// Pin the last edge so range membership is exact.
	bins[binCount-1].Right = max

	for _, v := range values {
		if v < min || v > max {
			continue
		}
		idx := int((v - min) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		bins[idx].Count++
	}
	return bins, nil
}
