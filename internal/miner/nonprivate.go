package miner

import (
	"github.com/swarmguard/dp2d/internal/ruleexpand"
)

// NonPrivateMiner enumerates every combination of size clen in
// [2,lmax] over the top-numits items and registers each through the
// RuleExpander directly — no RNG, no epsilon, no forbidding (spec.md
// §4.6). Grounded conceptually on original_source/dp2d.c's abandoned
// generate_and_add_all_rules loop shape (the clen/combination nesting),
// without its reservoir-sampling machinery (DESIGN.md Open Question #4:
// a single shared SeenItemsetsLog for the whole run).
type NonPrivateMiner struct {
	values   []int // item values in table order, already thresholded to numits
	lmax     int
	expander *ruleexpand.Expander
}

// NewNonPrivate returns a NonPrivateMiner over the given item values
// (already restricted to the numits prefix of the item table).
func NewNonPrivate(values []int, lmax int, exp *ruleexpand.Expander) *NonPrivateMiner {
	return &NonPrivateMiner{values: values, lmax: lmax, expander: exp}
}

// Run enumerates every combination of every size from 2 to lmax and
// expands each into the histogram. Returns the number of itemsets
// processed.
func (m *NonPrivateMiner) Run() int {
	n := len(m.values)
	count := 0
	for clen := 2; clen <= m.lmax && clen <= n; clen++ {
		idx := make([]int, clen)
		for i := range idx {
			idx[i] = i
		}
		for {
			itemset := make([]int, clen)
			for i, p := range idx {
				itemset[i] = m.values[p]
			}
			insertionSort(itemset)
			m.expander.Expand(itemset)
			count++

			if !nextCombination(idx, n, clen) {
				break
			}
		}
	}
	return count
}

// nextCombination advances idx (strictly increasing indices into
// [0,n)) to the next combination in lexicographic order, matching the
// same odometer increment the lattice enumerator uses. Returns false
// once every combination has been produced.
func nextCombination(idx []int, n, clen int) bool {
	j := clen - 1
	for j >= 0 && idx[j] == n-clen+j {
		j--
	}
	if j < 0 {
		return false
	}
	idx[j]++
	for x := j + 1; x < clen; x++ {
		idx[x] = idx[x-1] + 1
	}
	return true
}
