package linker

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Report summarises one link pass.
type Report struct {
	// Primary and Secondary are the input collection sizes.
	Primary   int
	Secondary int
	// Indexed is the number of distinct secondary keys.
	Indexed     int
	Duplicates  int
	MissingKeys int
	// Matched holds the positions of primary records whose target was written.
	Matched *roaring.Bitmap
	// Skipped is set when an empty input made the call a no-op.
	Skipped bool
}

func newReport(primary int) Report {
	return Report{
		Primary: primary,
		Matched: roaring.New(),
	}
}

// MatchedCount returns the number of primary records that received a match.
func (r Report) MatchedCount() int {
	if r.Matched == nil {
		return 0
	}

	return int(r.Matched.GetCardinality())
}

// Unmatched returns the positions of primary records left untouched.
func (r Report) Unmatched() []int {
	out := make([]int, 0, r.Primary-r.MatchedCount())

	for i := range r.Primary {
		if r.Matched == nil || !r.Matched.Contains(uint32(i)) {
			out = append(out, i)
		}
	}

	return out
}

func (r *Report) absorb(idx *Index) {
	r.Indexed = idx.Len()
	r.Duplicates = idx.Duplicates()
	r.MissingKeys = idx.MissingKeys()
}
