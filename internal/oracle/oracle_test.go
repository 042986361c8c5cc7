package oracle

import (
	"testing"

	"github.com/swarmguard/dp2d/internal/txn"
)

func dataset() *txn.Dataset {
	return &txn.Dataset{
		N: 4,
		Transactions: [][]int{
			{1, 2, 3},
			{1, 2},
			{2, 3, 4},
			{1, 3},
		},
	}
}

func TestItemCount(t *testing.T) {
	o := New(dataset())
	cases := map[int]int{0: 3, 1: 3, 2: 3, 3: 1} // items 1,2,3,4 by position
	for pos, want := range cases {
		if got := o.ItemCount(pos); got != want {
			t.Fatalf("ItemCount(%d) = %d, want %d", pos, got, want)
		}
	}
}

func TestItemsetCount(t *testing.T) {
	o := New(dataset())
	cases := []struct {
		values []int
		want   int
	}{
		{[]int{1, 2}, 2},
		{[]int{1, 2, 3}, 1},
		{[]int{1, 4}, 0},
		{[]int{2, 3}, 2},
	}
	for _, c := range cases {
		if got := o.ItemsetCount(c.values); got != c.want {
			t.Fatalf("ItemsetCount(%v) = %d, want %d", c.values, got, c.want)
		}
	}
}

func TestItemsetCountOutOfRangeItem(t *testing.T) {
	o := New(dataset())
	if got := o.ItemsetCount([]int{1, 99}); got != 0 {
		t.Fatalf("ItemsetCount with out-of-range item = %d, want 0", got)
	}
}

func TestN(t *testing.T) {
	o := New(dataset())
	if o.N() != 4 {
		t.Fatalf("N() = %d, want 4", o.N())
	}
}
