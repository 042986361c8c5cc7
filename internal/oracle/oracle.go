// Package oracle implements the FrequencyOracle collaborator (spec.md
// §6): exact support counts over the transaction log, computed once at
// startup and queried read-only for the rest of the run.
package oracle

import (
	"sort"

	"github.com/swarmguard/dp2d/internal/txn"
)

// Oracle answers exact support queries against a fixed transaction log.
// Implementations must be safe for concurrent read-only use; nothing
// mutates an Oracle after New returns.
type Oracle interface {
	// ItemCount returns the number of transactions containing item i+1
	// (i is a 0-based position into the item universe [1,N]).
	ItemCount(i int) int
	// ItemsetCount returns the number of transactions containing every
	// item in values (1-based item identifiers).
	ItemsetCount(values []int) int
	// N returns the size of the item universe.
	N() int
}

// memOracle is the in-memory exact FrequencyOracle: one sorted postings
// list of transaction indices per item, intersected on query. It trades memory for
// query speed, matching the single-pass batch nature of the tool (no
// update path is needed, per spec.md's Non-goals).
type memOracle struct {
	n       int
	byItem  [][]int32 // byItem[i-1] = sorted transaction indices containing item i
	nilItem []int32
}

// New builds a FrequencyOracle from a parsed Dataset.
func New(ds *txn.Dataset) Oracle {
	byItem := make([][]int32, ds.N)
	for ti, items := range ds.Transactions {
		for _, v := range items {
			byItem[v-1] = append(byItem[v-1], int32(ti))
		}
	}
	return &memOracle{n: ds.N, byItem: byItem}
}

func (o *memOracle) N() int { return o.n }

func (o *memOracle) ItemCount(i int) int {
	if i < 0 || i >= o.n {
		return 0
	}
	return len(o.byItem[i])
}

// ItemsetCount intersects the postings lists of every item in values,
// smallest list first, so the common case (sparse itemsets) stays
// near-linear in the smallest list's length.
func (o *memOracle) ItemsetCount(values []int) int {
	if len(values) == 0 {
		return 0
	}
	lists := make([][]int32, len(values))
	for i, v := range values {
		if v < 1 || v > o.n {
			return 0
		}
		lists[i] = o.byItem[v-1]
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	cur := lists[0]
	for _, next := range lists[1:] {
		cur = intersectSorted(cur, next)
		if len(cur) == 0 {
			return 0
		}
	}
	return len(cur)
}

func intersectSorted(a, b []int32) []int32 {
	out := make([]int32, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
