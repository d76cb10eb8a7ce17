package tests

import (
	"math"
	"sort"

	"statbook/engine/dist"
	"statbook/engine/regress"
	"statbook/internal/errors"
)

// SpotlightResult is the simple-effect test of the focal predictor at a
// chosen moderator value.
type SpotlightResult struct {
	ModeratorValue float64 `json:"moderator_value"`
	Effect         float64 `json:"effect"`
	SE             float64 `json:"se"`
	T              float64 `json:"t"`
	P              float64 `json:"p"`
	DF             int     `json:"df"`
}

// Spotlight computes the conditional effect of X on Y at moderator value z0
// from a moderated fit (y ~ z + x + z*x). The effect is b_x + b_zx*z0 and
// its variance expands to Var(b_x) + z0^2 Var(b_zx) + 2 z0 Cov(b_x, b_zx),
// which is why the fit must carry the full covariance matrix.
func Spotlight(fit *regress.FitResult, z0 float64) (*SpotlightResult, error) {
	if err := requireModeratedFit(fit); err != nil {
		return nil, err
	}
	b := fit.Coefficients[regress.CoefFocal]
	d := fit.Coefficients[regress.CoefInteraction]
	effect := b + d*z0

	variance := fit.Cov(regress.CoefFocal, regress.CoefFocal) +
		z0*z0*fit.Cov(regress.CoefInteraction, regress.CoefInteraction) +
		2*z0*fit.Cov(regress.CoefFocal, regress.CoefInteraction)
	if variance <= 0 {
		return nil, errors.DegenerateInput("conditional effect has non-positive variance")
	}
	se := math.Sqrt(variance)
	t := effect / se

	return &SpotlightResult{
		ModeratorValue: z0,
		Effect:         effect,
		SE:             se,
		T:              t,
		P:              dist.TPValueTwoSided(t, float64(fit.DF)),
		DF:             fit.DF,
	}, nil
}

// JNRegion is one interval of the moderator range with a constant
// significance status. Unbounded ends are
// represented with -Inf / +Inf.
type JNRegion struct {
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Significant bool    `json:"significant"`
}

// JohnsonNeymanResult reports where on the moderator range the conditional
// effect of X is significant at the given alpha.
type JohnsonNeymanResult struct {
	Alpha      float64    `json:"alpha"`
	Boundaries []float64  `json:"boundaries"` // 0, 1 or 2 values, ascending
	Regions    []JNRegion `json:"regions"`    // len(Boundaries)+1, ascending
}

// JohnsonNeyman solves for the moderator values where the conditional
// effect's confidence bound crosses zero. Significance at moderator value z
// holds iff (b + d z)^2 > tcrit^2 * Var(b + d z); expanding both sides gives
// a quadratic in z whose real roots are the boundaries.
func JohnsonNeyman(fit *regress.FitResult, alpha float64) (*JohnsonNeymanResult, error) {
	if err := requireModeratedFit(fit); err != nil {
		return nil, err
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.InvalidConfig("alpha must be in (0, 1)")
	}
	tCrit := dist.TCriticalTwoSided(alpha, float64(fit.DF))
	t2 := tCrit * tCrit

	b := fit.Coefficients[regress.CoefFocal]
	d := fit.Coefficients[regress.CoefInteraction]
	vb := fit.Cov(regress.CoefFocal, regress.CoefFocal)
	vd := fit.Cov(regress.CoefInteraction, regress.CoefInteraction)
	cbd := fit.Cov(regress.CoefFocal, regress.CoefInteraction)

	// (b + d z)^2 - t2 (vb + z^2 vd + 2 z cbd) > 0, as A z^2 + B z + C > 0.
	A := d*d - t2*vd
	B := 2 * (b*d - t2*cbd)
	C := b*b - t2*vb

	result := &JohnsonNeymanResult{Alpha: alpha}
	significantAt := func(z float64) bool {
		return A*z*z+B*z+C > 0
	}

	var roots []float64
	const eps = 1e-12
	if math.Abs(A) < eps {
		// Quadratic degenerates to a line: at most one boundary.
		if math.Abs(B) >= eps {
			roots = []float64{-C / B}
		}
	} else {
		disc := B*B - 4*A*C
		if disc > 0 {
			s := math.Sqrt(disc)
			roots = []float64{(-B - s) / (2 * A), (-B + s) / (2 * A)}
			sort.Float64s(roots)
		} else if disc == 0 {
			roots = []float64{-B / (2 * A)}
		}
	}
	result.Boundaries = roots

	// One region per interval between boundaries, classified at an interior
	// point.
	edges := append([]float64{math.Inf(-1)}, roots...)
	edges = append(edges, math.Inf(1))
	for i := 0; i < len(edges)-1; i++ {
		lo, hi := edges[i], edges[i+1]
		probe := regionProbe(lo, hi)
		result.Regions = append(result.Regions, JNRegion{
			Lower:       lo,
			Upper:       hi,
			Significant: significantAt(probe),
		})
	}
	return result, nil
}

// regionProbe picks an interior point of (lo, hi) for classification.
func regionProbe(lo, hi float64) float64 {
	switch {
	case math.IsInf(lo, -1) && math.IsInf(hi, 1):
		return 0
	case math.IsInf(lo, -1):
		return hi - 1
	case math.IsInf(hi, 1):
		return lo + 1
	default:
		return (lo + hi) / 2
	}
}

func requireModeratedFit(fit *regress.FitResult) error {
	if fit == nil {
		return errors.InvalidInput("nil regression fit")
	}
	if len(fit.Coefficients) != 4 || len(fit.Covariance) != 4 {
		return errors.InvalidInput("moderation probes require a moderated (4-coefficient) fit")
	}
	return nil
}
