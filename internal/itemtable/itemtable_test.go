package itemtable

import (
	"testing"

	"github.com/swarmguard/dp2d/internal/rng"
)

type fakeOracle struct{ counts []int }

func (f fakeOracle) ItemCount(i int) int { return f.counts[i] }

func TestBuildNonPrivateExactCounts(t *testing.T) {
	o := fakeOracle{counts: []int{5, 1, 9, 3}}
	r := rng.New(1)
	entries, numits := Build(o, 4, 1.0, 2.302585, r, false)

	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}
	for _, e := range entries {
		if e.NoisyCount != float64(e.RealCount) {
			t.Fatalf("non-private noisy count %v != real count %v", e.NoisyCount, e.RealCount)
		}
	}
	// Descending order by noisy count.
	for i := 1; i < len(entries); i++ {
		if entries[i-1].NoisyCount < entries[i].NoisyCount {
			t.Fatalf("entries not sorted descending: %+v", entries)
		}
	}
	if numits < 0 || numits > 4 {
		t.Fatalf("numits = %d, out of range", numits)
	}
}

func TestBuildPrivateNeverNegative(t *testing.T) {
	o := fakeOracle{counts: []int{0, 0, 0, 0, 0}}
	r := rng.New(2)
	entries, _ := Build(o, 5, 0.01, 2.302585, r, true)
	for _, e := range entries {
		if e.NoisyCount < 0 {
			t.Fatalf("noisy count %v is negative", e.NoisyCount)
		}
	}
}

func TestBuildItemValuesAreOneBased(t *testing.T) {
	o := fakeOracle{counts: []int{1, 2, 3}}
	r := rng.New(3)
	entries, _ := Build(o, 3, 1.0, 2.302585, r, false)
	seen := map[int]bool{}
	for _, e := range entries {
		seen[e.Value] = true
	}
	for v := 1; v <= 3; v++ {
		if !seen[v] {
			t.Fatalf("expected item value %d present in entries", v)
		}
	}
}
