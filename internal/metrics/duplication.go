package metrics

import (
	"sort"

	"github.com/ludo-technologies/mscan/domain"
)

// Range is a half-open line range [Start, End)
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of lines in the range
func (r Range) Len() int64 {
	return r.End - r.Start
}

// MergedLength returns the number of distinct lines covered by ranges whose
// length is at least tolerance. Ranges that overlap or touch are merged.
func MergedLength(ranges []Range, tolerance int64) int64 {
	kept := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Len() >= tolerance && r.Len() > 0 {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return 0
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].End < kept[j].End
	})

	var total int64
	current := kept[0]
	for _, r := range kept[1:] {
		if r.Start <= current.End {
			if r.End > current.End {
				current.End = r.End
			}
			continue
		}
		total += current.Len()
		current = r
	}
	return total + current.Len()
}

// DuplicationCalculator counts duplicated lines without counting a line twice
// within the same file
type DuplicationCalculator struct {
	tolerance int64
}

// NewDuplicationCalculator creates a calculator ignoring blocks shorter than tolerance
func NewDuplicationCalculator(tolerance int64) *DuplicationCalculator {
	if tolerance < 0 {
		tolerance = 0
	}
	return &DuplicationCalculator{tolerance: tolerance}
}

type fileID struct {
	recipe string
	file   string
}

// Calculate merges the ranges of each (recipe, file) separately and sums the results
func (c *DuplicationCalculator) Calculate(coll domain.Collection) int64 {
	var order []fileID
	byFile := make(map[fileID][]Range)
	for _, d := range domain.Select[domain.DuplicationData](coll, domain.KindDuplication) {
		id := fileID{recipe: d.RecipeName(), file: d.FilePath()}
		if _, ok := byFile[id]; !ok {
			order = append(order, id)
		}
		byFile[id] = append(byFile[id], Range{Start: d.Start, End: d.End})
	}

	var total int64
	for _, id := range order {
		total += MergedLength(byFile[id], c.tolerance)
	}
	return total
}
