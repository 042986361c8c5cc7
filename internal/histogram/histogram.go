// Package histogram implements the HistogramSink collaborator
// (spec.md §6): a fixed-width confidence histogram over [0,1],
// owned exclusively by the miner for the life of one run.
package histogram

import (
	"fmt"
	"io"
)

// DefaultBins matches the tabular dump the original dp2d.c produced for
// its confidence buckets: one row per percentage point.
const DefaultBins = 100

// Histogram accumulates observed rule confidences into fixed-width bins.
// Not safe for concurrent use; spec.md §5 guarantees a single writer.
type Histogram struct {
	bins  []uint64
	total uint64
}

// New returns an empty histogram with the given bin count.
func New(bins int) *Histogram {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &Histogram{bins: make([]uint64, bins)}
}

// Register increments the bin covering c, a confidence in [0,1].
func (h *Histogram) Register(c float64) {
	if c < 0 || c > 1 {
		return
	}
	idx := int(c * float64(len(h.bins)))
	if idx >= len(h.bins) {
		idx = len(h.bins) - 1
	}
	h.bins[idx]++
	h.total++
}

// GetAll returns the total number of registrations.
func (h *Histogram) GetAll() uint64 {
	return h.total
}

// Dump emits a human-readable tabular dump: one line per non-empty bin,
// "<lo>-<hi>\t<count>", scaled by scale (e.g. 1 for raw counts, or
// 1/total for fractions), each line preceded by prefix.
func (h *Histogram) Dump(w io.Writer, scale float64, prefix string) {
	width := 1.0 / float64(len(h.bins))
	for i, count := range h.bins {
		if count == 0 {
			continue
		}
		lo := float64(i) * width
		hi := lo + width
		fmt.Fprintf(w, "%s%5.3f-%5.3f\t%.4f\n", prefix, lo, hi, float64(count)*scale)
	}
}
