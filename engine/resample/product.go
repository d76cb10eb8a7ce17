package resample

import (
	"statbook/engine/rng"
	"statbook/internal/errors"
)

// SimulateProduct draws draws pairs (a-hat, b-hat) from independent normals
// N(a, seA) and N(b, seB) and records their product. The resulting
// distribution is visibly skewed even though each factor is normal, which is
// the point of the Sobel-test critique lesson.
func SimulateProduct(a, seA, b, seB float64, draws int, seed int64) ([]float64, error) {
	if draws <= 0 {
		return nil, errors.InvalidConfig("draw count must be positive")
	}
	if seA < 0 || seB < 0 {
		return nil, errors.InvalidInput("standard errors must be non-negative")
	}
	gen := rng.New(seed)
	out := make([]float64, draws)
	for i := range out {
		aHat := a + seA*gen.Norm()
		bHat := b + seB*gen.Norm()
		out[i] = aHat * bHat
	}
	return out, nil
}
