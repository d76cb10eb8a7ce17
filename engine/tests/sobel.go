package tests

import (
	"math"

	"statbook/engine/dist"
	"statbook/internal/errors"
)

// SobelResult is the normal-theory test of an indirect (mediated) effect.
type SobelResult struct {
	IndirectEffect float64 `json:"indirect_effect"` // a*b
	SE             float64 `json:"se"`
	Z              float64 `json:"z"`
	P              float64 `json:"p"`
}

// SobelTest tests the product of the X->M path a and the M->Y path b against
// zero, assuming the product is normally distributed. The product of two
// normals is skewed, which is exactly what the bootstrap lesson demonstrates;
// this test is the critique target, not the recommendation.
func SobelTest(a, seA, b, seB float64) (*SobelResult, error) {
	if seA < 0 || seB < 0 {
		return nil, errors.InvalidInput("standard errors must be non-negative")
	}
	se := math.Sqrt(a*a*seB*seB + b*b*seA*seA)
	if se == 0 {
		return nil, errors.DegenerateInput("sobel test is undefined when both path terms are zero")
	}
	z := a * b / se
	return &SobelResult{
		IndirectEffect: a * b,
		SE:             se,
		Z:              z,
		P:              dist.NormalPValueTwoSided(z),
	}, nil
}
