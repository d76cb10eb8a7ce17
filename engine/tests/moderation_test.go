package tests

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statbook/engine/regress"
	"statbook/engine/rng"
)

// moderatedFixture builds a dataset where the effect of x on y is (base +
// slope*z): the conditional effect crosses zero at z = -base/slope.
func moderatedFixture(t *testing.T, n int, base, slope float64, seed int64) *regress.FitResult {
	t.Helper()
	gen := rng.New(seed)
	z := make([]float64, n)
	x := gen.NormalSample(n, 0, 1)
	y := make([]float64, n)
	for i := range z {
		z[i] = 4 * gen.Float64() // moderator spread over [0, 4)
		y[i] = 2 + 0.3*z[i] + (base+slope*z[i])*x[i] + 0.5*gen.Norm()
	}
	fit, err := regress.FitModerated(z, x, y)
	require.NoError(t, err)
	return fit
}

func TestSpotlight_VarianceExpansion(t *testing.T) {
	fit := moderatedFixture(t, 250, -1, 0.5, 17)
	z0 := 1.3

	result, err := Spotlight(fit, z0)
	require.NoError(t, err)

	b := fit.Coefficients[regress.CoefFocal]
	d := fit.Coefficients[regress.CoefInteraction]
	assert.InDelta(t, b+d*z0, result.Effect, 1e-12)

	wantVar := fit.Cov(regress.CoefFocal, regress.CoefFocal) +
		z0*z0*fit.Cov(regress.CoefInteraction, regress.CoefInteraction) +
		2*z0*fit.Cov(regress.CoefFocal, regress.CoefInteraction)
	assert.InDelta(t, math.Sqrt(wantVar), result.SE, 1e-12)
	assert.Equal(t, fit.DF, result.DF)
}

func TestSpotlight_SignificanceTracksDistanceFromCrossover(t *testing.T) {
	// True effect is -1 + 0.5z: zero at z = 2.
	fit := moderatedFixture(t, 300, -1, 0.5, 29)

	atCrossover, err := Spotlight(fit, 2)
	require.NoError(t, err)
	farBelow, err := Spotlight(fit, 0)
	require.NoError(t, err)
	farAbove, err := Spotlight(fit, 4)
	require.NoError(t, err)

	assert.Greater(t, atCrossover.P, 0.05)
	assert.Less(t, farBelow.P, 0.001)
	assert.Less(t, farAbove.P, 0.001)
	assert.Less(t, farBelow.Effect, 0.0)
	assert.Greater(t, farAbove.Effect, 0.0)
}

func TestSpotlight_RequiresModeratedFit(t *testing.T) {
	simple, err := regress.FitSimple([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 5, 8, 10})
	require.NoError(t, err)
	_, err = Spotlight(simple, 1)
	assert.Error(t, err)

	_, err = Spotlight(nil, 1)
	assert.Error(t, err)
}

func TestJohnsonNeyman_TwoBoundariesBracketCrossover(t *testing.T) {
	fit := moderatedFixture(t, 300, -1, 0.5, 29)

	result, err := JohnsonNeyman(fit, 0.05)
	require.NoError(t, err)

	require.Len(t, result.Boundaries, 2)
	lo, hi := result.Boundaries[0], result.Boundaries[1]
	assert.Less(t, lo, hi)
	// The non-significant band brackets the true crossover at z = 2.
	assert.Less(t, lo, 2.0)
	assert.Greater(t, hi, 2.0)

	require.Len(t, result.Regions, 3)
	assert.True(t, result.Regions[0].Significant)
	assert.False(t, result.Regions[1].Significant)
	assert.True(t, result.Regions[2].Significant)
	assert.True(t, math.IsInf(result.Regions[0].Lower, -1))
	assert.True(t, math.IsInf(result.Regions[2].Upper, 1))
}

func TestJohnsonNeyman_AgreesWithSpotlight(t *testing.T) {
	fit := moderatedFixture(t, 300, -1, 0.5, 61)
	result, err := JohnsonNeyman(fit, 0.05)
	require.NoError(t, err)
	require.Len(t, result.Boundaries, 2)

	// A spotlight test exactly at a boundary sits right at p = alpha.
	for _, boundary := range result.Boundaries {
		spot, err := Spotlight(fit, boundary)
		require.NoError(t, err)
		assert.InDelta(t, 0.05, spot.P, 1e-6)
	}

	// Inside each region the spotlight p-value matches the region's flag.
	mid := (result.Boundaries[0] + result.Boundaries[1]) / 2
	spot, err := Spotlight(fit, mid)
	require.NoError(t, err)
	assert.Greater(t, spot.P, 0.05)
}

func TestJohnsonNeyman_NoCrossover(t *testing.T) {
	// Strong constant effect, weak interaction: significant everywhere the
	// data lives, so any boundaries fall outside or vanish.
	fit := moderatedFixture(t, 300, 2, 0.01, 83)
	result, err := JohnsonNeyman(fit, 0.05)
	require.NoError(t, err)

	spot, err := Spotlight(fit, 2)
	require.NoError(t, err)
	assert.Less(t, spot.P, 0.001)

	// Wherever region edges landed, z = 2 must sit in a significant region.
	for _, region := range result.Regions {
		if region.Lower <= 2 && 2 <= region.Upper {
			assert.True(t, region.Significant)
		}
	}
}

func TestJohnsonNeyman_InvalidAlpha(t *testing.T) {
	fit := moderatedFixture(t, 100, -1, 0.5, 3)
	_, err := JohnsonNeyman(fit, 0)
	assert.Error(t, err)
	_, err = JohnsonNeyman(fit, 1)
	assert.Error(t, err)
}
