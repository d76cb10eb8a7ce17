// Package resample implements the seeded resampling and simulation pieces of
// the engine: the bootstrap distribution of an indirect effect, the
// product-of-normals simulation used to critique the Sobel test, percentile
// confidence intervals, and histogram binning.
package resample

import (
	"sort"

	"statbook/engine/regress"
	"statbook/engine/rng"
	"statbook/internal/errors"
)

// MediationData holds paired (x, m, y) observations.
type MediationData struct {
	X []float64 `json:"x"`
	M []float64 `json:"m"`
	Y []float64 `json:"y"`
}

func (d MediationData) validate() error {
	n := len(d.X)
	if n < 5 {
		return errors.DegenerateInput("mediation bootstrap requires at least 5 observations")
	}
	if len(d.M) != n || len(d.Y) != n {
		return errors.InvalidInput("x, m and y must have equal length")
	}
	return nil
}

// IndirectEffect fits the two mediation regressions on the given data and
// returns a*b: the X->M slope times the M->Y slope controlling for X.
func IndirectEffect(d MediationData) (float64, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}
	mFit, err := regress.FitSimple(d.X, d.M)
	if err != nil {
		return 0, err
	}
	yFit, err := regress.FitTwoPredictor(d.X, d.M, d.Y)
	if err != nil {
		return 0, err
	}
	a := mFit.Coefficients[1]
	b := yFit.Coefficients[2]
	return a * b, nil
}

// Bootstrap accumulates a replicate distribution of the indirect effect.
// Replicates only ever grow; Reset discards them wholesale. The caller
// invokes Run in bounded batches so its event loop can yield between
// batches.
type Bootstrap struct {
	data MediationData
	gen  *rng.Generator

	replicates []float64
	skipped    int
}

// NewBootstrap validates the data and prepares a seeded replicate stream.
func NewBootstrap(data MediationData, seed int64) (*Bootstrap, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &Bootstrap{data: data, gen: rng.New(seed)}, nil
}

// Run draws batch more replicates: resample n triples with replacement,
// refit both mediation regressions, record a*b. Resamples whose design
// matrix is singular (all-identical x draws) are skipped, not recorded.
// Returns the number of replicates actually added.
func (b *Bootstrap) Run(batch int) (int, error) {
	if batch <= 0 {
		return 0, errors.InvalidConfig("batch size must be positive")
	}
	n := len(b.data.X)
	added := 0
	x := make([]float64, n)
	m := make([]float64, n)
	y := make([]float64, n)
	for r := 0; r < batch; r++ {
		for i := 0; i < n; i++ {
			j := b.gen.Intn(n)
			x[i] = b.data.X[j]
			m[i] = b.data.M[j]
			y[i] = b.data.Y[j]
		}
		ab, err := IndirectEffect(MediationData{X: x, M: m, Y: y})
		if err != nil {
			b.skipped++
			continue
		}
		b.replicates = append(b.replicates, ab)
		added++
	}
	return added, nil
}

// Replicates returns a copy of the accumulated replicate set.
func (b *Bootstrap) Replicates() []float64 {
	return append([]float64(nil), b.replicates...)
}

// Count returns the number of accumulated replicates.
func (b *Bootstrap) Count() int { return len(b.replicates) }

// Skipped returns how many resamples were discarded as degenerate.
func (b *Bootstrap) Skipped() int { return b.skipped }

// Reset discards the replicate set and restarts the stream from seed.
func (b *Bootstrap) Reset(seed int64) {
	b.replicates = nil
	b.skipped = 0
	b.gen.Seed(seed)
}

// Interval is a two-sided percentile confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// CI reads the percentile confidence interval at the given level (e.g. 0.95)
// from the replicate distribution.
func (b *Bootstrap) CI(level float64) (*Interval, error) {
	return PercentileCI(b.replicates, level)
}

// PercentileCI computes a two-sided percentile interval over a replicate
// set. Endpoints use linear interpolation between order statistics so the
// interval moves continuously as replicates accumulate.
func PercentileCI(replicates []float64, level float64) (*Interval, error) {
	if len(replicates) < 2 {
		return nil, errors.DegenerateInput("confidence interval requires at least 2 replicates")
	}
	if level <= 0 || level >= 1 {
		return nil, errors.InvalidConfig("confidence level must be in (0, 1)")
	}
	sorted := append([]float64(nil), replicates...)
	sort.Float64s(sorted)
	tail := (1 - level) / 2
	return &Interval{
		Lower: Quantile(sorted, tail),
		Upper: Quantile(sorted, 1-tail),
		Level: level,
	}, nil
}

// Quantile reads quantile p from an ascending-sorted sample with linear
// interpolation between order statistics.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
