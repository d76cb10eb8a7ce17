// Package regress implements ordinary least squares for the three model
// shapes the lessons use: one predictor, two predictors, and a moderated
// (interaction) model. All three share one design-matrix solve so the
// variants cannot drift numerically.
package regress

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"statbook/engine/descriptive"
	"statbook/engine/dist"
	"statbook/internal/errors"
)

// MaxCondition is the design-matrix condition number above which a fit is
// reported as singular instead of returning unreliable coefficients.
const MaxCondition = 1e12

// Coefficient order in a moderated fit: intercept, moderator Z, focal
// predictor X, interaction Z*X.
const (
	CoefIntercept   = 0
	CoefModerator   = 1
	CoefFocal       = 2
	CoefInteraction = 3
)

// FitResult is the flat record produced by every regression variant.
// Covariance is the full p x p coefficient covariance matrix; spotlight
// tests and Johnson-Neyman boundaries need the off-diagonal entries, not
// just the standard errors.
type FitResult struct {
	Coefficients []float64   `json:"coefficients"`
	StdErrors    []float64   `json:"std_errors"`
	TValues      []float64   `json:"t_values"`
	PValues      []float64   `json:"p_values"`
	RSquared     float64     `json:"r_squared"`
	ResidualSE   float64     `json:"residual_se"`
	DF           int         `json:"df"`
	N            int         `json:"n"`
	Covariance   [][]float64 `json:"covariance"`
	Condition    float64     `json:"condition"`
}

// Slope returns the coefficient at index i, counting the intercept as 0.
func (r *FitResult) Slope(i int) float64 { return r.Coefficients[i] }

// Cov returns the covariance between coefficients i and j.
func (r *FitResult) Cov(i, j int) float64 { return r.Covariance[i][j] }

// Fit solves y = X*beta by normal equations over an explicit design matrix.
// columns holds the predictor columns; an intercept column is prepended.
// Requires n > p; a condition number above MaxCondition is reported as
// SINGULAR_MATRIX.
func Fit(columns [][]float64, y []float64) (*FitResult, error) {
	n := len(y)
	p := len(columns) + 1
	if n <= p {
		return nil, errors.DegenerateInput("regression requires more observations than coefficients")
	}
	for _, c := range columns {
		if len(c) != n {
			return nil, errors.InvalidInput("design column length does not match response length")
		}
	}

	// Design matrix with a leading intercept column.
	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, c := range columns {
			X.Set(i, j+1, c[i])
		}
	}

	cond := mat.Cond(X, 2)
	if math.IsNaN(cond) || math.IsInf(cond, 0) || cond > MaxCondition {
		return nil, errors.SingularMatrix("design matrix is singular or near-singular")
	}

	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	// Normal equations: (X'X) beta = X'y.
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xty mat.VecDense
	xty.MulVec(X.T(), yVec)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, errors.SingularMatrix("normal equations could not be inverted")
	}
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	// Residual variance and fit quality.
	var fitted mat.VecDense
	fitted.MulVec(X, &beta)
	ssRes := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		ssRes += r * r
	}
	yMean := descriptive.Mean(y)
	ssTot := 0.0
	for _, v := range y {
		d := v - yMean
		ssTot += d * d
	}

	df := n - p
	sigma2 := ssRes / float64(df)

	result := &FitResult{
		Coefficients: make([]float64, p),
		StdErrors:    make([]float64, p),
		TValues:      make([]float64, p),
		PValues:      make([]float64, p),
		ResidualSE:   math.Sqrt(sigma2),
		DF:           df,
		N:            n,
		Covariance:   make([][]float64, p),
		Condition:    cond,
	}
	if ssTot > 0 {
		result.RSquared = 1 - ssRes/ssTot
	}
	for i := 0; i < p; i++ {
		result.Coefficients[i] = beta.AtVec(i)
		result.Covariance[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			result.Covariance[i][j] = sigma2 * xtxInv.At(i, j)
		}
	}
	for i := 0; i < p; i++ {
		result.StdErrors[i] = math.Sqrt(result.Covariance[i][i])
		if result.StdErrors[i] > 0 {
			result.TValues[i] = result.Coefficients[i] / result.StdErrors[i]
		} else {
			result.TValues[i] = math.NaN()
		}
		result.PValues[i] = dist.TPValueTwoSided(result.TValues[i], float64(df))
	}
	return result, nil
}

// FitSimple fits y ~ x. Coefficients are [intercept, slope] and df = n-2.
func FitSimple(x, y []float64) (*FitResult, error) {
	if len(x) != len(y) {
		return nil, errors.InvalidInput("x and y must have equal length")
	}
	return Fit([][]float64{x}, y)
}

// FitTwoPredictor fits y ~ x1 + x2. Coefficients are
// [intercept, slope1, slope2] and df = n-3.
func FitTwoPredictor(x1, x2, y []float64) (*FitResult, error) {
	if len(x1) != len(y) || len(x2) != len(y) {
		return nil, errors.InvalidInput("predictors and response must have equal length")
	}
	return Fit([][]float64{x1, x2}, y)
}

// FitModerated fits y ~ z + x + z*x. Coefficient order follows the Coef*
// constants and df = n-4. The interaction column is built from the raw
// (uncentered) inputs; lessons center beforehand when they want centered
// coefficients.
func FitModerated(z, x, y []float64) (*FitResult, error) {
	if len(z) != len(y) || len(x) != len(y) {
		return nil, errors.InvalidInput("predictors and response must have equal length")
	}
	zx := make([]float64, len(y))
	for i := range zx {
		zx[i] = z[i] * x[i]
	}
	return Fit([][]float64{z, x, zx}, y)
}
