package checkpoint

import (
	"path/filepath"
	"testing"
)

func TestPutAndCompleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer s.Close()

	want := []Round{
		{Round: 1, Positions: []int{0, 1}, Values: []int{1, 2}, MinV: -0.5},
		{Round: 2, Positions: []int{2, 3}, Values: []int{3, 4}, MinV: -0.2},
	}
	for _, r := range want {
		if err := s.Put(r); err != nil {
			t.Fatalf("Put returned error: %v", err)
		}
	}

	got, err := s.Completed()
	if err != nil {
		t.Fatalf("Completed returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Completed() returned %d rounds, want %d", len(got), len(want))
	}
}

func TestReopenPreservesRounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Put(Round{Round: 1, Positions: []int{0}, Values: []int{1}, MinV: -1}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer s2.Close()
	got, err := s2.Completed()
	if err != nil {
		t.Fatalf("Completed returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Completed() after reopen returned %d rounds, want 1", len(got))
	}
}
