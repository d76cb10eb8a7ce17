// Package dist wraps the probability distributions the engine needs: normal,
// Student's t and F densities, two-sided p-values, and critical-value
// lookups. All functions are total over finite inputs: out-of-support x
// yields density 0 and degenerate degrees of freedom yield p = 1, never a
// panic or NaN.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalPDF evaluates the normal density with the given mean and standard
// deviation. Returns 0 for sd <= 0.
func NormalPDF(x, mean, sd float64) float64 {
	if sd <= 0 {
		return 0
	}
	d := (x - mean) / sd
	return math.Exp(-0.5*d*d) / (sd * math.Sqrt(2*math.Pi))
}

// NormalCDF is the standard normal cumulative distribution function.
func NormalCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// NormalQuantile is the standard normal inverse CDF. p outside (0, 1)
// returns -Inf / +Inf at the boundaries.
func NormalQuantile(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}
	return distuv.UnitNormal.Quantile(p)
}

// NormalPValueTwoSided is the two-sided p-value of a standard-normal z
// statistic.
func NormalPValueTwoSided(z float64) float64 {
	return 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
}

// TPDF evaluates the Student's t density with df degrees of freedom.
// Returns 0 for df < 1.
func TPDF(x, df float64) float64 {
	if df < 1 {
		return 0
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Prob(x)
}

// TPValueTwoSided computes the two-sided p-value of a t statistic with df
// degrees of freedom. Non-integer df (Welch tests) is supported. Degenerate
// df yields 1: no evidence rather than an error.
func TPValueTwoSided(t, df float64) float64 {
	if df < 1 || math.IsNaN(t) {
		return 1
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(t)))
}

// TCriticalTwoSided returns the critical t value for a two-sided test at
// level alpha with df degrees of freedom.
func TCriticalTwoSided(alpha, df float64) float64 {
	if df < 1 || alpha <= 0 || alpha >= 1 {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return tDist.Quantile(1 - alpha/2)
}

// FPDF evaluates the F density with df1 and df2 degrees of freedom.
// Out-of-support x (x < 0) yields 0. The density diverges as x -> 0+ when
// df1 = 1; at exactly x = 0 the result is clamped to 0 so the return value is
// always finite. Callers that plot the density start from a positive minimum
// x.
func FPDF(x, df1, df2 float64) float64 {
	if df1 < 1 || df2 < 1 || x <= 0 {
		return 0
	}
	v := distuv.F{D1: df1, D2: df2}.Prob(x)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// FPValue computes the upper-tail p-value of an F statistic.
func FPValue(f, df1, df2 float64) float64 {
	if df1 < 1 || df2 < 1 || math.IsNaN(f) {
		return 1
	}
	if f <= 0 {
		return 1
	}
	return 1 - distuv.F{D1: df1, D2: df2}.CDF(f)
}

// FCritical returns the upper critical value of the F distribution at level
// alpha.
func FCritical(alpha, df1, df2 float64) float64 {
	if df1 < 1 || df2 < 1 || alpha <= 0 || alpha >= 1 {
		return math.NaN()
	}
	return distuv.F{D1: df1, D2: df2}.Quantile(1 - alpha)
}
