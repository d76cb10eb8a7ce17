// Package descriptive implements the summary statistics and sum-of-squares
// decompositions the rest of the engine is built on. Samples are plain
// []float64 slices; group sets are ordered [][]float64 with no equal-size
// requirement.
package descriptive

import (
	"math"

	mfstats "github.com/montanaflynn/stats"

	"statbook/internal/errors"
)

// Mean returns the arithmetic mean of the sample, or NaN for an empty sample.
func Mean(sample []float64) float64 {
	if len(sample) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range sample {
		sum += v
	}
	return sum / float64(len(sample))
}

// StandardDeviation returns the standard deviation of the sample. With
// sampleCorrection the divisor is n-1 (estimating a population parameter);
// without it the divisor is n (known-parameter demonstrations). Returns NaN
// when the divisor would be zero or negative.
func StandardDeviation(sample []float64, sampleCorrection bool) float64 {
	n := len(sample)
	divisor := n
	if sampleCorrection {
		divisor = n - 1
	}
	if divisor <= 0 {
		return math.NaN()
	}
	m := Mean(sample)
	sumSq := 0.0
	for _, v := range sample {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(divisor))
}

// Variance is the squared StandardDeviation with the same divisor choice.
func Variance(sample []float64, sampleCorrection bool) float64 {
	sd := StandardDeviation(sample, sampleCorrection)
	return sd * sd
}

// FiveNumber holds order statistics used for display and IQR-based outlier
// fences.
type FiveNumber struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summary computes the five-number summary of a sample.
func Summary(sample []float64) (FiveNumber, error) {
	if len(sample) == 0 {
		return FiveNumber{}, errors.DegenerateInput("summary requires a non-empty sample")
	}
	min, _ := mfstats.Min(sample)
	max, _ := mfstats.Max(sample)
	median, _ := mfstats.Median(sample)
	quartiles, err := mfstats.Quartile(sample)
	if err != nil {
		// Quartile needs at least 3 values; fall back to the median.
		quartiles = mfstats.Quartiles{Q1: median, Q2: median, Q3: median}
	}
	return FiveNumber{Min: min, Q1: quartiles.Q1, Median: median, Q3: quartiles.Q3, Max: max}, nil
}

// GroupStats describes an ordered group set.
type GroupStats struct {
	Means     []float64 `json:"means"`
	SDs       []float64 `json:"sds"` // sample-corrected, NaN for groups of size 1
	Sizes     []int     `json:"sizes"`
	GrandMean float64   `json:"grand_mean"`
	TotalN    int       `json:"total_n"`
}

// CalculateGroupStatistics returns per-group means and sizes plus the grand
// mean. The grand mean is the unweighted mean over all raw observations, not
// the mean of the group means; the two differ when group sizes differ.
func CalculateGroupStatistics(groups [][]float64) (*GroupStats, error) {
	if len(groups) == 0 {
		return nil, errors.DegenerateInput("group statistics require at least one group")
	}
	gs := &GroupStats{
		Means: make([]float64, len(groups)),
		SDs:   make([]float64, len(groups)),
		Sizes: make([]int, len(groups)),
	}
	grandSum := 0.0
	for i, g := range groups {
		if len(g) == 0 {
			return nil, errors.DegenerateInput("group statistics require non-empty groups")
		}
		gs.Means[i] = Mean(g)
		gs.SDs[i] = StandardDeviation(g, true)
		gs.Sizes[i] = len(g)
		gs.TotalN += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	gs.GrandMean = grandSum / float64(gs.TotalN)
	return gs, nil
}

// SumOfSquares is the one-way decomposition of total variation.
type SumOfSquares struct {
	Total   float64 `json:"ss_total"`
	Between float64 `json:"ss_between"`
	Within  float64 `json:"ss_within"`
}

// ComputeSumOfSquares decomposes the variation of a group set. Within-group
// variation is accumulated directly from deviations about each group mean
// rather than by subtraction, so Total - Between - Within only differs from
// zero by accumulation error. A group of size 1 contributes nothing to the
// within term.
func ComputeSumOfSquares(groups [][]float64) (*SumOfSquares, error) {
	gs, err := CalculateGroupStatistics(groups)
	if err != nil {
		return nil, err
	}
	ss := &SumOfSquares{}
	for i, g := range groups {
		dm := gs.Means[i] - gs.GrandMean
		ss.Between += float64(len(g)) * dm * dm
		for _, v := range g {
			dt := v - gs.GrandMean
			ss.Total += dt * dt
			dw := v - gs.Means[i]
			ss.Within += dw * dw
		}
	}
	return ss, nil
}

// Flatten concatenates a group set into a single sample, preserving group
// order then observation order.
func Flatten(groups [][]float64) []float64 {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]float64, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
