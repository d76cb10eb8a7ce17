// Package contrast implements weighted linear contrasts over group means
// (estimate, validity, orthogonality, F test) and the outlier-threshold
// computations used by the data-screening lessons.
package contrast

import (
	"math"

	"statbook/engine/descriptive"
	"statbook/engine/dist"
	"statbook/internal/errors"
)

// zeroTol is the tolerance for "sums to zero" checks on contrast weights.
const zeroTol = 1e-9

// WeightValidation reports both the literal weight sum and whether it passes
// the zero-sum requirement; the lessons display the sum, not just the flag.
type WeightValidation struct {
	Sum   float64 `json:"sum"`
	Valid bool    `json:"valid"`
}

// ValidateWeights checks that contrast weights sum to zero.
func ValidateWeights(weights []float64) WeightValidation {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return WeightValidation{Sum: sum, Valid: math.Abs(sum) <= zeroTol}
}

// Compute evaluates the contrast estimate: the weighted sum of group means.
func Compute(weights, means []float64) (float64, error) {
	if len(weights) != len(means) {
		return 0, errors.InvalidInput("weights and means must align one-to-one")
	}
	if len(weights) == 0 {
		return 0, errors.DegenerateInput("contrast requires at least one group")
	}
	psi := 0.0
	for i, w := range weights {
		psi += w * means[i]
	}
	return psi, nil
}

// AreOrthogonal reports whether two contrasts are orthogonal: their dot
// product is zero within tolerance. With unequal group sizes pass sizes to
// weight each term by n_i; with equal n a nil sizes slice gives the plain
// dot product.
func AreOrthogonal(c1, c2 []float64, sizes []int) (bool, error) {
	if len(c1) != len(c2) {
		return false, errors.InvalidInput("contrasts must have equal length")
	}
	if sizes != nil && len(sizes) != len(c1) {
		return false, errors.InvalidInput("sizes must align with contrast weights")
	}
	dot := 0.0
	for i := range c1 {
		term := c1[i] * c2[i]
		if sizes != nil {
			if sizes[i] <= 0 {
				return false, errors.InvalidInput("group sizes must be positive")
			}
			term *= float64(sizes[i])
		}
		dot += term
	}
	return math.Abs(dot) <= zeroTol, nil
}

// FTestResult is the contrast F test as a flat record. A contrast consumes
// exactly one between-groups degree of freedom.
type FTestResult struct {
	Estimate   float64 `json:"estimate"` // psi-hat
	SSContrast float64 `json:"ss_contrast"`
	MSWithin   float64 `json:"ms_within"`
	F          float64 `json:"f"`
	P          float64 `json:"p"`
	DF1        int     `json:"df1"`
	DF2        int     `json:"df2"`
	Validation WeightValidation `json:"validation"`
}

// FTest tests a single contrast against zero. Assumes equal n per group (the
// lessons' design); SS_contrast = n * psi^2 / sum(c_i^2) and the error term
// is the one-way MS_within of the same groups. Weights that do not sum to
// zero are an invalid configuration, reported with the offending sum.
func FTest(weights []float64, groups [][]float64) (*FTestResult, error) {
	validation := ValidateWeights(weights)
	if !validation.Valid {
		return nil, errors.InvalidConfig("contrast weights must sum to zero")
	}
	if len(weights) != len(groups) {
		return nil, errors.InvalidInput("weights and groups must align one-to-one")
	}
	if len(groups) < 2 {
		return nil, errors.DegenerateInput("contrast F test requires at least 2 groups")
	}
	n := len(groups[0])
	for _, g := range groups[1:] {
		if len(g) != n {
			return nil, errors.InvalidInput("contrast F test assumes equal group sizes")
		}
	}

	gs, err := descriptive.CalculateGroupStatistics(groups)
	if err != nil {
		return nil, err
	}
	psi, err := Compute(weights, gs.Means)
	if err != nil {
		return nil, err
	}

	sumC2 := 0.0
	for _, w := range weights {
		sumC2 += w * w
	}
	if sumC2 == 0 {
		return nil, errors.InvalidConfig("contrast weights must not all be zero")
	}
	ssContrast := float64(n) * psi * psi / sumC2

	ss, err := descriptive.ComputeSumOfSquares(groups)
	if err != nil {
		return nil, err
	}
	dfWithin := gs.TotalN - len(groups)
	if dfWithin < 1 {
		return nil, errors.DegenerateInput("contrast F test requires residual degrees of freedom")
	}
	msWithin := ss.Within / float64(dfWithin)
	if msWithin == 0 {
		return nil, errors.DegenerateInput("contrast F test is undefined with zero within-group variance")
	}
	f := ssContrast / msWithin

	return &FTestResult{
		Estimate:   psi,
		SSContrast: ssContrast,
		MSWithin:   msWithin,
		F:          f,
		P:          dist.FPValue(f, 1, float64(dfWithin)),
		DF1:        1,
		DF2:        dfWithin,
		Validation: validation,
	}, nil
}
