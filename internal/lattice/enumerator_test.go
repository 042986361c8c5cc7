package lattice

import "testing"

type noneForbidden struct{}

func (noneForbidden) Contains([]int) bool { return false }

type setForbidden struct{ sets [][]int }

func (s setForbidden) Contains(positions []int) bool {
	for _, f := range s.sets {
		if len(f) != len(positions) {
			continue
		}
		match := true
		for i := range f {
			if f[i] != positions[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func collectAll(numits, lmax int, forbidden Forbidden) [][]int {
	e := New(numits, lmax)
	e.Init(forbidden)
	var out [][]int
	for !e.Exhausted() {
		cp := append([]int(nil), e.Positions()...)
		out = append(out, cp)
		e.Next(forbidden)
	}
	return out
}

func TestEnumeratesAllCombinationsInOrder(t *testing.T) {
	got := collectAll(4, 2, noneForbidden{})
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("got %d combinations, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Fatalf("combination %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLmaxGreaterThanNumitsIsImmediatelyExhausted(t *testing.T) {
	e := New(2, 3)
	e.Init(noneForbidden{})
	if !e.Exhausted() {
		t.Fatal("expected immediate exhaustion when lmax > numits")
	}
}

func TestSkipsForbiddenCombinations(t *testing.T) {
	forbidden := setForbidden{sets: [][]int{{0, 1}, {1, 2}}}
	got := collectAll(4, 2, forbidden)
	for _, c := range got {
		if forbidden.Contains(c) {
			t.Fatalf("enumerator yielded forbidden combination %v", c)
		}
	}
	want := 6 - 2
	if len(got) != want {
		t.Fatalf("got %d combinations, want %d", len(got), want)
	}
}

func TestInitSkipsForbiddenFirstCombination(t *testing.T) {
	forbidden := setForbidden{sets: [][]int{{0, 1}}}
	e := New(3, 2)
	e.Init(forbidden)
	if e.Exhausted() {
		t.Fatal("unexpected exhaustion")
	}
	if p := e.Positions(); p[0] != 0 || p[1] != 2 {
		t.Fatalf("first combination = %v, want [0 2]", p)
	}
}
