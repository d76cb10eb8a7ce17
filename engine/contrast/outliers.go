package contrast

import (
	mfstats "github.com/montanaflynn/stats"

	"statbook/engine/descriptive"
	"statbook/internal/errors"
)

// BoundsMethod selects how outlier fences are derived.
type BoundsMethod string

const (
	// MethodSD fences at mean +/- multiplier * sample SD.
	MethodSD BoundsMethod = "sd"
	// MethodIQR fences at Q1 - multiplier*IQR and Q3 + multiplier*IQR.
	MethodIQR BoundsMethod = "iqr"
)

// OutlierBounds is one [lower, upper] fence plus the indices of
// observations falling outside it.
type OutlierBounds struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Indices []int   `json:"indices"`
}

// PooledOutlierResult reports one fence derived from all groups pooled,
// applied back to each group. Indices[g] lists the flagged observation
// positions within group g.
type PooledOutlierResult struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Indices [][]int `json:"indices"`
}

func bounds(sample []float64, multiplier float64, method BoundsMethod) (lower, upper float64, err error) {
	switch method {
	case MethodSD:
		m := descriptive.Mean(sample)
		sd := descriptive.StandardDeviation(sample, true)
		return m - multiplier*sd, m + multiplier*sd, nil
	case MethodIQR:
		q, qErr := mfstats.Quartile(sample)
		if qErr != nil {
			return 0, 0, errors.DegenerateInput("IQR bounds require at least 3 observations")
		}
		iqr := q.Q3 - q.Q1
		return q.Q1 - multiplier*iqr, q.Q3 + multiplier*iqr, nil
	default:
		return 0, 0, errors.InvalidConfig("unknown outlier bounds method")
	}
}

func flag(sample []float64, lower, upper float64) []int {
	indices := []int{}
	for i, v := range sample {
		if v < lower || v > upper {
			indices = append(indices, i)
		}
	}
	return indices
}

// WithinConditionBounds computes a separate fence for each group from that
// group's own center and spread. Groups too small for the chosen method
// (fewer than 2 for SD, fewer than 3 for IQR) are degenerate input.
func WithinConditionBounds(groups [][]float64, multiplier float64, method BoundsMethod) ([]OutlierBounds, error) {
	if len(groups) == 0 {
		return nil, errors.DegenerateInput("outlier bounds require at least one group")
	}
	if multiplier <= 0 {
		return nil, errors.InvalidConfig("multiplier must be positive")
	}
	out := make([]OutlierBounds, len(groups))
	for i, g := range groups {
		if len(g) < 2 {
			return nil, errors.DegenerateInput("within-condition bounds require at least 2 observations per group")
		}
		lower, upper, err := bounds(g, multiplier, method)
		if err != nil {
			return nil, err
		}
		out[i] = OutlierBounds{Lower: lower, Upper: upper, Indices: flag(g, lower, upper)}
	}
	return out, nil
}

// AcrossConditionBounds pools all groups into one sample, derives a single
// fence from the pooled center and spread, and applies it to every group.
func AcrossConditionBounds(groups [][]float64, multiplier float64, method BoundsMethod) (*PooledOutlierResult, error) {
	if len(groups) == 0 {
		return nil, errors.DegenerateInput("outlier bounds require at least one group")
	}
	if multiplier <= 0 {
		return nil, errors.InvalidConfig("multiplier must be positive")
	}
	pooled := descriptive.Flatten(groups)
	if len(pooled) < 2 {
		return nil, errors.DegenerateInput("across-condition bounds require at least 2 observations")
	}
	lower, upper, err := bounds(pooled, multiplier, method)
	if err != nil {
		return nil, err
	}
	result := &PooledOutlierResult{Lower: lower, Upper: upper, Indices: make([][]int, len(groups))}
	for i, g := range groups {
		result.Indices[i] = flag(g, lower, upper)
	}
	return result, nil
}

// RemoveOutliers returns a new sample with the observations at the flagged
// indices dropped; the input sample is never mutated.
func RemoveOutliers(sample []float64, indices []int) []float64 {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	out := make([]float64, 0, len(sample)-len(indices))
	for i, v := range sample {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}
