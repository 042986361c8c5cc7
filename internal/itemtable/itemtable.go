// Package itemtable builds the noisy item-frequency universe that
// prunes the candidate search (spec.md §4.1).
package itemtable

import (
	"sort"

	"github.com/swarmguard/dp2d/internal/rng"
)

// Entry is one ItemEntry (spec.md §3): a 1-based item value, its exact
// count, and its noise-perturbed count.
type Entry struct {
	Value      int
	RealCount  int
	NoisyCount float64
}

// Oracle is the subset of the frequency oracle contract ItemTable needs.
type Oracle interface {
	ItemCount(i int) int
}

// Build constructs the sorted, thresholded item universe.
//
// If private is true, noisyCount = max(0, realCount + Laplace(1/eps1));
// otherwise noisyCount = realCount exactly. Entries are sorted
// descending by noisy count (stable, so ties resolve by original item
// index given a fixed RNG stream — spec.md §5 invariant 4). numits is
// the index of the first sorted entry whose noisy count is below
// scaleFactor/eps1, i.e. the longest prefix whose noisy counts are all
// >= scaleFactor/eps1; if every entry clears the bar, numits = n.
func Build(oracle Oracle, n int, eps1 float64, scaleFactor float64, r *rng.RNG, private bool) (entries []Entry, numits int) {
	entries = make([]Entry, n)
	for i := 0; i < n; i++ {
		real := oracle.ItemCount(i)
		noisy := float64(real)
		if private {
			noisy = r.Laplace(float64(real), eps1, 1)
			if noisy < 0 {
				noisy = 0
			}
		}
		entries[i] = Entry{Value: i + 1, RealCount: real, NoisyCount: noisy}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].NoisyCount > entries[j].NoisyCount
	})

	threshold := scaleFactor / eps1
	numits = n
	for i, e := range entries {
		if e.NoisyCount < threshold {
			numits = i
			break
		}
	}
	return entries, numits
}
