// Package reconcile computes the difference between two keyed release
// indices: records present on only one side, and records present on both
// whose release years disagree.
package reconcile

import (
	"slices"

	"github.com/sydlexius/cratediff/internal/release"
)

// Diff is the result of comparing two indices. The three slices are
// disjoint and sorted ascending for deterministic output.
type Diff struct {
	// OnlyInA holds IDs present in the first index but not the second.
	OnlyInA []int

	// OnlyInB holds IDs present in the second index but not the first.
	OnlyInB []int

	// YearMismatch holds IDs present in both indices whose years are
	// both known and unequal.
	YearMismatch []int
}

// Empty reports whether the diff contains no discrepancies.
func (d Diff) Empty() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0 && len(d.YearMismatch) == 0
}

// Compare computes the diff between two indices. It is a pure function:
// neither index is mutated and the result depends only on the inputs.
// An ID whose year is unknown on either side is never reported as a
// mismatch; unknown is not comparable to a real year.
func Compare(a, b release.Index) Diff {
	var d Diff
	for id, ea := range a {
		eb, ok := b[id]
		if !ok {
			d.OnlyInA = append(d.OnlyInA, id)
			continue
		}
		if ea.Release.YearKnown() && eb.Release.YearKnown() && ea.Release.Year != eb.Release.Year {
			d.YearMismatch = append(d.YearMismatch, id)
		}
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			d.OnlyInB = append(d.OnlyInB, id)
		}
	}
	slices.Sort(d.OnlyInA)
	slices.Sort(d.OnlyInB)
	slices.Sort(d.YearMismatch)
	return d
}
