// Package rng provides the seeded uniform/Laplace stream the core
// algorithms are built on. A single RNG is owned by the miner and
// threaded explicitly through every call that needs randomness; nothing
// in this package touches global state.
package rng

import (
	"math"
	"math/rand"
)

// RNG is a reproducible stream of uniform doubles. Identical seeds must
// produce identical streams across runs (spec.md §5, invariant 4).
type RNG struct {
	src *rand.Rand
}

// New seeds a fresh stream.
func New(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Uniform returns a value in the open interval (0,1). rand.Float64
// returns [0,1); we nudge away from exactly 0 since both Laplace and the
// Gumbel-trick expressions divide by or take the log of values derived
// from u.
func (r *RNG) Uniform() float64 {
	u := r.src.Float64()
	for u == 0 {
		u = r.src.Float64()
	}
	return u
}

// Laplace returns x + (sens/eps)*sign*ln(1-2|u-0.5|) for u ~ Uniform(),
// the inverse-CDF construction required by spec.md §5 so independent
// implementations agree bit-for-bit given the same RNG stream.
func (r *RNG) Laplace(x, eps, sens float64) float64 {
	u := r.Uniform()
	sign := 1.0
	if u < 0.5 {
		sign = -1.0
	}
	return x + (sens/eps)*sign*math.Log(1-2*math.Abs(u-0.5))
}

// Gumbel draws the log(log(1/u)) term of the exponential-mechanism
// Gumbel trick (spec.md §4.3/§GLOSSARY). Kept as a named helper so every
// caller uses the identical expression.
func (r *RNG) Gumbel() float64 {
	u := r.Uniform()
	return math.Log(math.Log(1 / u))
}
