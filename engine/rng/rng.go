// Package rng provides deterministic seeded random number generation for
// sample generation and resampling. Every stochastic operation in the engine
// draws from an explicit Generator so that the same seed reproduces the same
// stream across process restarts and across ports of the engine.
package rng

import (
	"math"
)

// splitmix64 constants. The generator is fully specified by these values so a
// port in another language can reproduce the stream bit for bit.
const (
	gamma = 0x9E3779B97F4A7C15
	mixA  = 0xBF58476D1CE4E5B9
	mixB  = 0x94D049BB133111EB
)

// Generator is a deterministic pseudo-random stream seeded by an integer.
// It is not safe for concurrent use; callers own one generator per stream.
type Generator struct {
	state uint64
}

// New creates a generator seeded with the given value. The same seed always
// produces the identical sequence.
func New(seed int64) *Generator {
	return &Generator{state: uint64(seed)}
}

// Seed resets the generator to the state it had immediately after New(seed).
func (g *Generator) Seed(seed int64) {
	g.state = uint64(seed)
}

// Uint64 advances the stream and returns the next raw 64-bit value.
func (g *Generator) Uint64() uint64 {
	g.state += gamma
	z := g.state
	z = (z ^ (z >> 30)) * mixA
	z = (z ^ (z >> 27)) * mixB
	return z ^ (z >> 31)
}

// Int63 implements rand.Source so the generator can back library samplers.
func (g *Generator) Int63() int64 {
	return int64(g.Uint64() >> 1)
}

// Float64 returns the next uniform deviate in [0, 1) with 53 bits of
// precision.
func (g *Generator) Float64() float64 {
	return float64(g.Uint64()>>11) / (1 << 53)
}

// Intn returns a deterministic integer in [0, n). It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with non-positive n")
	}
	i := int(g.Float64() * float64(n))
	if i == n { // Float64 < 1, but guard the boundary anyway
		i = n - 1
	}
	return i
}

// Norm returns a standard-normal deviate via the Box-Muller transform,
// consuming exactly two uniforms per call so the stream position stays easy
// to reason about in regression fixtures.
func (g *Generator) Norm() float64 {
	u1 := g.Float64()
	if u1 < math.SmallestNonzeroFloat64 {
		// Keep ln(u1) finite when the stream lands on exactly zero.
		u1 = math.SmallestNonzeroFloat64
	}
	u2 := g.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// NormalSample draws n values from N(mean, sd).
func (g *Generator) NormalSample(n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*g.Norm()
	}
	return out
}

// UniformSample draws n values from the uniform distribution on [0, 1).
func (g *Generator) UniformSample(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Float64()
	}
	return out
}

// NormalSample is a convenience for one-shot generation: it seeds a fresh
// stream and draws n values from N(mean, sd).
func NormalSample(n int, mean, sd float64, seed int64) []float64 {
	return New(seed).NormalSample(n, mean, sd)
}
