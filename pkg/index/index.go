// Package index builds the derived query structures over the draw store:
// the set of every drawn combination, per-number occurrence counts, and
// per-number draws-since-last-seen gaps.
//
// The index is always rebuilt by a full pass over the store, never patched
// incrementally, so it cannot drift from the records it was built from.
// A built index is immutable and safe for concurrent readers.
package index

import (
	"github.com/delcain/drawsync/pkg/draw"
)

// NeverDrawn is the gap value for a number that has no occurrence in the
// stored history.
const NeverDrawn = -1

// Index answers membership, frequency and gap queries against the full
// draw history. All queries are read-only.
type Index struct {
	total  int
	combos map[string]struct{}
	counts [draw.MaxNumber + 1]int
	gaps   [draw.MaxNumber + 1]int
}

// Build constructs the index from an ordered record collection. The first
// pass inserts fingerprints and occurrence counts; the gap for each number
// is its distance from the most recent draw, found by scanning backward
// from the end of the ordered history until the number first appears.
func Build(records []draw.Record) *Index {
	ix := &Index{
		total:  len(records),
		combos: make(map[string]struct{}, len(records)),
	}

	for n := 1; n <= draw.MaxNumber; n++ {
		ix.gaps[n] = NeverDrawn
	}

	for i := range records {
		ix.combos[draw.Fingerprint(records[i].Numbers)] = struct{}{}

		for _, n := range records[i].Numbers {
			ix.counts[n]++
		}
	}

	for i := len(records) - 1; i >= 0; i-- {
		for _, n := range records[i].Numbers {
			if ix.gaps[n] == NeverDrawn {
				ix.gaps[n] = len(records) - 1 - i
			}
		}
	}

	return ix
}

// IsKnownCombination reports whether the combination has ever been drawn.
// The order of the queried numbers is irrelevant.
func (ix *Index) IsKnownCombination(numbers []int) bool {
	if len(numbers) != draw.Size {
		return false
	}

	_, ok := ix.combos[draw.Fingerprint(numbers)]

	return ok
}

// OccurrenceCount returns how many times the number has been drawn, zero
// when never drawn or out of range.
func (ix *Index) OccurrenceCount(number int) int {
	if number < 1 || number > draw.MaxNumber {
		return 0
	}

	return ix.counts[number]
}

// DrawsSinceLastSeen returns how many draws have passed since the number
// last appeared, relative to the latest stored draw. A number in the latest
// draw has gap 0. NeverDrawn is returned for numbers with no occurrence or
// out of range.
func (ix *Index) DrawsSinceLastSeen(number int) int {
	if number < 1 || number > draw.MaxNumber {
		return NeverDrawn
	}

	return ix.gaps[number]
}

// Draws returns the number of records the index was built from.
func (ix *Index) Draws() int {
	return ix.total
}

// DistinctNumbers returns how many distinct numbers have ever been drawn.
func (ix *Index) DistinctNumbers() int {
	distinct := 0

	for n := 1; n <= draw.MaxNumber; n++ {
		if ix.counts[n] > 0 {
			distinct++
		}
	}

	return distinct
}
