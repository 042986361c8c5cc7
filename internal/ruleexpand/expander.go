// Package ruleexpand implements RuleExpander (spec.md §4.4, resolved in
// DESIGN.md Open Question decision #3): given one itemset S (either the
// round winner from PrivateMiner or a combination from NonPrivateMiner),
// register every non-trivial antecedent/consequent split as a rule in
// the histogram, after a single SeenItemsetsLog check/insert for S.
package ruleexpand

import (
	"math/bits"
	"sort"

	"github.com/swarmguard/dp2d/internal/histogram"
	"github.com/swarmguard/dp2d/internal/oracle"
)

// SeenLog is the subset of SeenItemsetsLog's contract the expander
// needs.
type SeenLog interface {
	Contains(values []int) bool
	Add(values []int)
}

// Stats accumulates the confidence extremes observed across every
// registered rule in a run (spec.md §6's min/max confidence report).
type Stats struct {
	Count   int
	MinConf float64
	MaxConf float64
	hasAny  bool
}

func (s *Stats) observe(conf float64) {
	s.Count++
	if !s.hasAny {
		s.hasAny = true
		s.MinConf = conf
		s.MaxConf = conf
		return
	}
	if conf < s.MinConf {
		s.MinConf = conf
	}
	if conf > s.MaxConf {
		s.MaxConf = conf
	}
}

// Expander registers confidence-rule histogram entries for itemsets it
// hasn't already processed.
type Expander struct {
	seen   SeenLog
	oracle oracle.Oracle
	hist   *histogram.Histogram
	stats  Stats

	// onRegister, when non-nil, is called once per histogram
	// registration (SPEC_FULL.md's dp2d_rules_registered_total
	// counter).
	onRegister func()
}

// New returns an Expander writing into hist and consulting oracle for
// exact support counts. onRegister may be nil.
func New(seen SeenLog, o oracle.Oracle, hist *histogram.Histogram, onRegister func()) *Expander {
	return &Expander{seen: seen, oracle: o, hist: hist, onRegister: onRegister}
}

// Stats returns the running confidence extremes observed so far.
func (e *Expander) Stats() Stats { return e.stats }

// Expand processes one itemset S (sorted ascending item values). If S
// has already been registered, Expand is a no-op (invariant: each
// itemset contributes at most once, spec.md §8). Otherwise it computes
// support_S once, then for every one of the 2^|S|-2 non-empty proper
// subsets A of S (consequent B = S \ A), registers confidence(A -> B) =
// support_S / support_A into the histogram.
func (e *Expander) Expand(values []int) {
	if e.seen.Contains(values) {
		return
	}
	e.seen.Add(values)

	n := len(values)
	if n < 2 {
		return
	}
	supS := e.oracle.ItemsetCount(values)

	full := (1 << n) - 1
	for mask := 1; mask < full; mask++ {
		if bits.OnesCount(uint(mask)) == 0 {
			continue
		}
		antecedent := subset(values, mask)
		supA := e.oracle.ItemsetCount(antecedent)
		conf := confidence(supS, supA)
		e.hist.Register(conf)
		e.stats.observe(conf)
		if e.onRegister != nil {
			e.onRegister()
		}
	}
}

// subset returns the items of values selected by the low n bits of
// mask, sorted ascending.
func subset(values []int, mask int) []int {
	out := make([]int, 0, bits.OnesCount(uint(mask)))
	for i, v := range values {
		if mask&(1<<i) != 0 {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// confidence computes support_S / support_A, or 0 when support_A is 0
// (spec.md §7 OracleInvariant: a support of 0 cannot be a denominator).
func confidence(supS, supA int) float64 {
	if supA == 0 {
		return 0
	}
	return float64(supS) / float64(supA)
}
