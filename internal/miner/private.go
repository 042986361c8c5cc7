// Package miner implements PrivateMiner and NonPrivateMiner (spec.md
// §4.5, §4.6): the k-round exponential-mechanism search and its
// exhaustive non-private counterpart.
package miner

import (
	"github.com/swarmguard/dp2d/internal/forbidden"
	"github.com/swarmguard/dp2d/internal/lattice"
	"github.com/swarmguard/dp2d/internal/ruleexpand"
	"github.com/swarmguard/dp2d/internal/selector"
)

// RoundTrace, when non-nil, receives one call per completed round
// (SPEC_FULL.md's supplemented per-round trace feature). positions are
// the sorted 0-based item-table positions (suitable for re-seeding a
// ForbiddenSet); values are the corresponding 1-based item identifiers.
type RoundTrace func(round int, epsRound float64, positions, values []int, minV float64)

// RoundSpan, when non-nil, opens a tracing span for one round number
// and returns the closer to call when that round's work is done
// (SPEC_FULL.md's per-round dp2d.round span).
type RoundSpan func(round int) func()

// PrivateMiner runs k rounds of the exponential mechanism over the
// item-table lattice, forbidding each round's winner from future
// rounds and handing it to a RuleExpander (original_source/dp2d.c's
// dp2d() main loop: "for (i = 0; i < k; i++) { analyze_items(...) }").
type PrivateMiner struct {
	numits   int
	lmax     int
	k        int
	epsRound float64

	forbidden  *forbidden.Set
	selector   *selector.Selector
	expander   *ruleexpand.Expander
	trace      RoundTrace
	span       RoundSpan
	startRound int
}

// NewPrivate returns a PrivateMiner ready to run k more rounds at the
// given per-round epsilon, over numits items grouped into
// lmax-combinations. seed is an optional pre-populated ForbiddenSet
// (e.g. rebuilt from a checkpoint's completed rounds); pass
// forbidden.New(lmax, k) for a fresh run. startRound offsets the round
// numbers handed to trace so a resumed run's trace/checkpoint continues
// the original numbering instead of restarting at 1. span may be nil.
func NewPrivate(numits, lmax, k int, epsRound float64, seed *forbidden.Set, sel *selector.Selector, exp *ruleexpand.Expander, trace RoundTrace, span RoundSpan, startRound int) *PrivateMiner {
	return &PrivateMiner{
		numits:     numits,
		lmax:       lmax,
		k:          k,
		epsRound:   epsRound,
		forbidden:  seed,
		selector:   sel,
		expander:   exp,
		trace:      trace,
		span:       span,
		startRound: startRound,
	}
}

// Run executes up to k rounds, registering each round's winner through
// the RuleExpander. Returns the number of rounds actually completed
// (fewer than k if the lattice is exhausted before round k, e.g. a
// small numits/lmax pairing).
func (m *PrivateMiner) Run() int {
	completed := 0
	for round := 0; round < m.k; round++ {
		if !m.runRound(round) {
			break
		}
		completed++
	}
	return completed
}

// runRound executes one round under its own span (when m.span is
// set) and reports whether the round produced a winner.
func (m *PrivateMiner) runRound(round int) bool {
	if m.span != nil {
		end := m.span(m.startRound + round + 1)
		defer end()
	}

	enum := lattice.New(m.numits, m.lmax)
	enum.Init(m.forbidden)
	if enum.Exhausted() {
		return false
	}

	m.selector.Reset()
	for !enum.Exhausted() {
		m.selector.Consider(enum.Positions(), m.epsRound)
		enum.Next(m.forbidden)
	}
	if !m.selector.HasWinner() {
		return false
	}

	winner := m.selector.Winner()
	positions := sortedCopy(winner.Positions)
	values := sortedValues(winner.Values)
	m.forbidden.Add(positions)
	m.expander.Expand(values)

	if m.trace != nil {
		m.trace(m.startRound+round+1, m.epsRound, positions, values, winner.MinV)
	}
	return true
}

func sortedCopy(positions []int) []int {
	out := append([]int(nil), positions...)
	insertionSort(out)
	return out
}

func sortedValues(values []int) []int {
	out := append([]int(nil), values...)
	insertionSort(out)
	return out
}

// insertionSort avoids pulling in sort.Ints for these small (<=7
// element) slices; lmax is bounded at 7 by spec.md §5.
func insertionSort(a []int) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}
