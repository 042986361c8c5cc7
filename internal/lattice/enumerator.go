// Package lattice implements the LatticeEnumerator (spec.md §4.2):
// strictly-increasing lmax-combinations of universe positions in
// lexicographic order, skipping any vector forbidden by the miner's
// ForbiddenSet.
package lattice

// Forbidden is the subset of ForbiddenSet's contract the enumerator
// needs: membership testing against a strictly-increasing position
// vector.
type Forbidden interface {
	Contains(positions []int) bool
}

// Enumerator emits CandidateVectors: strictly increasing lmax-tuples of
// positions in [0,numits). It is restartable (Init) and finite.
type Enumerator struct {
	numits    int
	lmax      int
	positions []int
	exhausted bool
}

// New returns an enumerator over lmax-combinations of [0,numits).
func New(numits, lmax int) *Enumerator {
	return &Enumerator{numits: numits, lmax: lmax, positions: make([]int, lmax)}
}

// Init resets the enumerator to its first combination (0,1,...,lmax-1),
// skipping ahead past any forbidden prefix (spec.md §4.2).
func (e *Enumerator) Init(forbidden Forbidden) {
	e.exhausted = e.lmax > e.numits
	for i := range e.positions {
		e.positions[i] = i
	}
	if !e.exhausted && forbidden.Contains(e.positions) {
		e.Next(forbidden)
	}
}

// Exhausted reports whether enumeration has finished.
func (e *Enumerator) Exhausted() bool { return e.exhausted }

// Positions returns the current combination. The returned slice is
// owned by the Enumerator and must not be retained or mutated by the
// caller past the next call to Next.
func (e *Enumerator) Positions() []int { return e.positions }

// Next advances to the next non-forbidden combination in lexicographic
// order. Returns true once enumeration is exhausted.
func (e *Enumerator) Next(forbidden Forbidden) bool {
	if e.exhausted {
		return true
	}
	for {
		e.advance()
		if e.exhausted || !forbidden.Contains(e.positions) {
			return e.exhausted
		}
	}
}

// advance performs the odometer-style increment described in spec.md
// §4.2: find the rightmost coordinate that hasn't hit its ceiling,
// bump it, then re-seed everything to its right.
func (e *Enumerator) advance() {
	j := e.lmax - 1
	for j >= 0 && e.positions[j] == e.numits-e.lmax+j {
		j--
	}
	if j < 0 {
		e.exhausted = true
		return
	}
	e.positions[j]++
	for x := j + 1; x < e.lmax; x++ {
		e.positions[x] = e.positions[x-1] + 1
	}
}
