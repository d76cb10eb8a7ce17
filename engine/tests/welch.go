// Package tests implements the classical hypothesis tests the lessons
// demonstrate: Welch's two-sample t-test, one-way and repeated-measures
// ANOVA, the Sobel test, and the moderation probes (spotlight tests and
// Johnson-Neyman boundaries).
package tests

import (
	"math"

	"statbook/engine/descriptive"
	"statbook/engine/dist"
	"statbook/internal/errors"
)

// TTestResult is the flat record of a two-sample t-test.
type TTestResult struct {
	T        float64 `json:"t"`
	DF       float64 `json:"df"` // Welch-Satterthwaite, generally non-integer
	P        float64 `json:"p"`
	Mean1    float64 `json:"mean1"`
	Mean2    float64 `json:"mean2"`
	SE       float64 `json:"se"`
	CohensD  float64 `json:"cohens_d"`
	N1       int     `json:"n1"`
	N2       int     `json:"n2"`
}

// WelchTTest compares two group means without assuming equal variances.
// Degrees of freedom come from the Welch-Satterthwaite equation. Requires at
// least two observations per group; two groups with zero variance in both is
// degenerate (the t statistic is undefined).
func WelchTTest(group1, group2 []float64) (*TTestResult, error) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	if n1 < 2 || n2 < 2 {
		return nil, errors.DegenerateInput("welch t-test requires at least 2 observations per group")
	}

	mean1 := descriptive.Mean(group1)
	mean2 := descriptive.Mean(group2)
	var1 := descriptive.Variance(group1, true)
	var2 := descriptive.Variance(group2, true)

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return nil, errors.DegenerateInput("welch t-test is undefined when both groups have zero variance")
	}
	t := (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom.
	df := math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	d := math.NaN()
	if pooledSD > 0 {
		d = (mean1 - mean2) / pooledSD
	}

	return &TTestResult{
		T:       t,
		DF:      df,
		P:       dist.TPValueTwoSided(t, df),
		Mean1:   mean1,
		Mean2:   mean2,
		SE:      se,
		CohensD: d,
		N1:      len(group1),
		N2:      len(group2),
	}, nil
}

// StudentTTest is the pooled-variance two-sample t-test with df = n1+n2-2.
// With two groups it satisfies t^2 == F from the one-way ANOVA on the same
// data, which the lessons use to connect the two tests.
func StudentTTest(group1, group2 []float64) (*TTestResult, error) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	if n1 < 2 || n2 < 2 {
		return nil, errors.DegenerateInput("t-test requires at least 2 observations per group")
	}

	mean1 := descriptive.Mean(group1)
	mean2 := descriptive.Mean(group2)
	var1 := descriptive.Variance(group1, true)
	var2 := descriptive.Variance(group2, true)

	df := n1 + n2 - 2
	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / df
	se := math.Sqrt(pooledVar * (1/n1 + 1/n2))
	if se == 0 {
		return nil, errors.DegenerateInput("t-test is undefined when both groups have zero variance")
	}
	t := (mean1 - mean2) / se

	d := math.NaN()
	if pooledVar > 0 {
		d = (mean1 - mean2) / math.Sqrt(pooledVar)
	}

	return &TTestResult{
		T:       t,
		DF:      df,
		P:       dist.TPValueTwoSided(t, df),
		Mean1:   mean1,
		Mean2:   mean2,
		SE:      se,
		CohensD: d,
		N1:      len(group1),
		N2:      len(group2),
	}, nil
}
