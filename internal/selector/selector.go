// Package selector implements the CandidateSelector (spec.md §4.3): the
// exponential-mechanism draw over a round's CandidateVectors, using the
// Gumbel trick so the winning corner can be picked with a single pass
// of independent uniform draws.
package selector

import (
	"github.com/swarmguard/dp2d/internal/config"
	"github.com/swarmguard/dp2d/internal/itemtable"
	"github.com/swarmguard/dp2d/internal/rng"
)

// ItemsetOracle is the subset of the frequency oracle contract the
// selector needs: exact support counts for a concrete item combination.
type ItemsetOracle interface {
	ItemsetCount(values []int) int
}

// Result carries the outcome of one round's selection (spec.md §4.3):
// the winning CandidateVector with its winning corner rotated to
// position 0, and the running-minimum Gumbel score that produced it.
type Result struct {
	Positions []int // winning vector, corner rotated to index 0
	Values    []int // item values at Positions, same order
	MinV      float64
}

// Selector scans every corner of every candidate vector the enumerator
// produces within a round and tracks the minimum v = log(log(1/u)) -
// effectiveEps*q/2 seen so far, per the Gumbel-trick derivation of the
// exponential mechanism (spec.md §4.3).
type Selector struct {
	entries []itemtable.Entry
	oracle  ItemsetOracle
	c0      float64
	variant config.QualityVariant
	r       *rng.RNG

	// onConsider, when non-nil, is called once per Consider invocation
	// (SPEC_FULL.md's dp2d_candidates_considered_total counter).
	onConsider func()

	bestV      float64
	hasBest    bool
	bestPos    []int
	bestValues []int
}

// New returns a Selector drawing against entries (the noisy item
// table), querying oracle for exact itemset supports, using corner
// denominator c0 and quality variant. onConsider may be nil.
func New(entries []itemtable.Entry, oracle ItemsetOracle, c0 float64, variant config.QualityVariant, r *rng.RNG, onConsider func()) *Selector {
	return &Selector{entries: entries, oracle: oracle, c0: c0, variant: variant, r: r, onConsider: onConsider}
}

// Reset clears the running minimum at the start of a new round.
func (s *Selector) Reset() {
	s.hasBest = false
	s.bestV = 0
	s.bestPos = nil
	s.bestValues = nil
}

// deltaQ is the sensitivity of the quality function: swapping one
// transaction changes support_AB or support_A by at most 1, and the
// quality function divides support_AB by c0, so the per-corner
// sensitivity is 1 + 1/c0 (DESIGN.md Open Question #2).
func (s *Selector) deltaQ() float64 { return 1 + 1/s.c0 }

// quality evaluates the corner's raw confidence gap (support_AB/c0 -
// support_A) under the configured variant.
func (s *Selector) quality(supA, supAB int) float64 {
	raw := float64(supAB)/s.c0 - float64(supA)
	switch s.variant {
	case config.QualityAsymmetric:
		if raw < 0 {
			return raw
		}
		return 0
	default:
		if raw < 0 {
			return raw
		}
		return -raw
	}
}

// Consider scores every corner of one CandidateVector (positions into
// the item table) against the round's residual epsilon epsRound, and
// updates the running minimum in place. positions must not be mutated
// by the caller afterward; Consider copies what it needs to retain.
func (s *Selector) Consider(positions []int, epsRound float64) {
	if s.onConsider != nil {
		s.onConsider()
	}

	lmax := len(positions)
	values := make([]int, lmax)
	for i, p := range positions {
		values[i] = s.entries[p].Value
	}
	supAB := s.oracle.ItemsetCount(values)

	effectiveEps := epsRound / s.deltaQ()

	for corner := 0; corner < lmax; corner++ {
		supA := s.entries[positions[corner]].RealCount
		q := s.quality(supA, supAB)

		v := s.r.Gumbel() - effectiveEps*q/2

		if !s.hasBest || v < s.bestV {
			s.hasBest = true
			s.bestV = v
			s.bestPos = rotate(positions, corner)
			s.bestValues = rotate(values, corner)
		}
	}
}

// HasWinner reports whether Consider has been called at least once
// since the last Reset.
func (s *Selector) HasWinner() bool { return s.hasBest }

// Winner returns the current best Result. Callers must call HasWinner
// first; Winner panics on an empty round.
func (s *Selector) Winner() Result {
	if !s.hasBest {
		panic("selector: Winner called before any Consider")
	}
	return Result{Positions: s.bestPos, Values: s.bestValues, MinV: s.bestV}
}

// rotate returns a copy of v with element at index i moved to the
// front, preserving the relative order of the rest (spec.md §4.3: "on
// improvement ... rotate the winning corner to position 0").
func rotate(v []int, i int) []int {
	out := make([]int, len(v))
	out[0] = v[i]
	j := 1
	for k := 0; k < len(v); k++ {
		if k == i {
			continue
		}
		out[j] = v[k]
		j++
	}
	return out
}
