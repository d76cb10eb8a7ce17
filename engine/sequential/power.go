package sequential

import (
	"math"

	"statbook/engine/dist"
	"statbook/internal/errors"
)

// Power approximates the power of a two-sample test of effect size d
// (Cohen's d) with n observations per group at significance level alpha,
// using the normal approximation. tails is 1 or 2.
func Power(d float64, n int, alpha float64, tails int) (float64, error) {
	if n < 2 {
		return 0, errors.DegenerateInput("power requires at least 2 observations per group")
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, errors.InvalidConfig("alpha must be in (0, 1)")
	}
	if tails != 1 && tails != 2 {
		return 0, errors.InvalidConfig("tails must be 1 or 2")
	}
	zCrit := dist.NormalQuantile(1 - alpha/float64(tails))
	// Noncentrality of the two-sample mean difference.
	lambda := math.Abs(d) * math.Sqrt(float64(n)/2)
	return dist.NormalCDF(lambda - zCrit), nil
}

// RequiredSampleSize inverts the power approximation: the smallest per-group
// n at which a two-sample test of effect size d reaches the target power.
func RequiredSampleSize(d, power, alpha float64, tails int) (int, error) {
	if d == 0 {
		return 0, errors.DegenerateInput("required sample size is undefined for a zero effect")
	}
	if power <= 0 || power >= 1 {
		return 0, errors.InvalidConfig("power must be in (0, 1)")
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, errors.InvalidConfig("alpha must be in (0, 1)")
	}
	if tails != 1 && tails != 2 {
		return 0, errors.InvalidConfig("tails must be 1 or 2")
	}
	zAlpha := dist.NormalQuantile(1 - alpha/float64(tails))
	zBeta := dist.NormalQuantile(power)
	n := 2 * math.Pow((zAlpha+zBeta)/math.Abs(d), 2)
	return int(math.Ceil(n)), nil
}
