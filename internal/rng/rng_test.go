package rng

import "testing"

func TestDeterministicStream(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Uniform(), b.Uniform()
		if va != vb {
			t.Fatalf("streams diverged at draw %d: %v != %v", i, va, vb)
		}
	}
}

func TestUniformOpenInterval(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		u := r.Uniform()
		if u <= 0 || u >= 1 {
			t.Fatalf("Uniform() returned %v, want (0,1)", u)
		}
	}
}

func TestLaplaceCentered(t *testing.T) {
	r := New(7)
	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		sum += r.Laplace(0, 1, 1)
	}
	mean := sum / n
	if mean < -0.2 || mean > 0.2 {
		t.Fatalf("Laplace(0,1,1) mean over %d draws = %v, want near 0", n, mean)
	}
}

func TestGumbelFinite(t *testing.T) {
	r := New(3)
	for i := 0; i < 1000; i++ {
		v := r.Gumbel()
		if v != v { // NaN check
			t.Fatalf("Gumbel() produced NaN")
		}
	}
}
