// Package release holds the domain model shared by both record sources:
// a normalized release, its origin location, and the keyed index the
// reconciler consumes.
package release

// Release is a single music release normalized from either source.
// The Discogs release ID is the sole join key across sources; Artist and
// Title are display-only and never compared. A Year of 0 means unknown.
type Release struct {
	ID     int
	Artist string
	Title  string
	Year   int
}

// YearKnown reports whether the release carries a usable year.
func (r Release) YearKnown() bool { return r.Year != 0 }

// Entry pairs a release with a deep link back to where it lives in its
// origin (a Discogs release URL or a spreadsheet cell URL). The location
// is carried for reporting only.
type Entry struct {
	Release  Release
	Location string
}

// Index maps Discogs release IDs to entries for one source. Indices are
// built fresh on every run and never mutated after construction.
type Index map[int]Entry

// IDs returns the set of keys in the index as a slice, in no particular
// order.
func (idx Index) IDs() []int {
	ids := make([]int, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	return ids
}
