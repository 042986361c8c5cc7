package ruleexpand

import (
	"testing"

	"github.com/swarmguard/dp2d/internal/histogram"
)

type fakeSeenLog struct{ seen map[string]bool }

func k(values []int) string {
	s := ""
	for _, v := range values {
		s += string(rune('a' + v))
	}
	return s
}

func (f *fakeSeenLog) Contains(values []int) bool { return f.seen[k(values)] }
func (f *fakeSeenLog) Add(values []int)           { f.seen[k(values)] = true }

type fakeOracle struct{ counts map[string]int }

func (f fakeOracle) ItemsetCount(values []int) int { return f.counts[k(values)] }
func (f fakeOracle) ItemCount(int) int             { return 0 }
func (f fakeOracle) N() int                        { return 0 }

func TestExpandRegistersAllSplitsForPair(t *testing.T) {
	seen := &fakeSeenLog{seen: map[string]bool{}}
	o := fakeOracle{counts: map[string]int{
		k([]int{1, 2}): 4,
		k([]int{1}):    8,
		k([]int{2}):    5,
	}}
	h := histogram.New(10)
	exp := New(seen, o, h, nil)
	exp.Expand([]int{1, 2})

	// spec.md invariant 3: a size-2 itemset contributes 2^2-2 = 2 rules.
	if exp.Stats().Count != 2 {
		t.Fatalf("Stats().Count = %d, want 2", exp.Stats().Count)
	}
}

func TestExpandIsIdempotentPerItemset(t *testing.T) {
	seen := &fakeSeenLog{seen: map[string]bool{}}
	o := fakeOracle{counts: map[string]int{
		k([]int{1, 2}): 4,
		k([]int{1}):    8,
		k([]int{2}):    5,
	}}
	h := histogram.New(10)
	exp := New(seen, o, h, nil)
	exp.Expand([]int{1, 2})
	exp.Expand([]int{1, 2})
	if exp.Stats().Count != 2 {
		t.Fatalf("Stats().Count = %d, want 2 (second Expand must be a no-op)", exp.Stats().Count)
	}
}

func TestExpandSizeThreeSplitCount(t *testing.T) {
	seen := &fakeSeenLog{seen: map[string]bool{}}
	o := fakeOracle{counts: map[string]int{
		k([]int{1, 2, 3}): 2,
		k([]int{1}):       10, k([]int{2}): 10, k([]int{3}): 10,
		k([]int{1, 2}): 6, k([]int{1, 3}): 6, k([]int{2, 3}): 6,
	}}
	h := histogram.New(10)
	exp := New(seen, o, h, nil)
	exp.Expand([]int{1, 2, 3})
	// 2^3 - 2 = 6 splits.
	if exp.Stats().Count != 6 {
		t.Fatalf("Stats().Count = %d, want 6", exp.Stats().Count)
	}
}

func TestConfidenceZeroDenominatorYieldsZero(t *testing.T) {
	if got := confidence(5, 0); got != 0 {
		t.Fatalf("confidence(5,0) = %v, want 0", got)
	}
}

func TestStatsTracksMinMax(t *testing.T) {
	seen := &fakeSeenLog{seen: map[string]bool{}}
	o := fakeOracle{counts: map[string]int{
		k([]int{1, 2}): 4,
		k([]int{1}):    8,
		k([]int{2}):    4,
	}}
	h := histogram.New(10)
	exp := New(seen, o, h, nil)
	exp.Expand([]int{1, 2})
	stats := exp.Stats()
	if stats.MinConf > stats.MaxConf {
		t.Fatalf("MinConf %v > MaxConf %v", stats.MinConf, stats.MaxConf)
	}
}
