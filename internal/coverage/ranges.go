package coverage

import (
	"cmp"
	"fmt"
	"slices"
)

// Range is the closed interval [Lo, Hi].
type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// Len returns the number of integers in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo + 1
}

// Contains reports whether x lies in the range.
func (r Range) Contains(x int) bool {
	return r.Lo <= x && x <= r.Hi
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Lo, r.Hi)
}

// Merge returns the merged form of ranges. The input is not modified.
// Merging an already merged list returns an equal list.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return mergeInPlace(out)
}

// mergeInPlace sorts rs by Lo and fuses overlapping or touching entries,
// reusing rs's backing array.
func mergeInPlace(rs []Range) []Range {
	if len(rs) == 0 {
		return rs[:0]
	}
	slices.SortFunc(rs, func(a, b Range) int {
		return cmp.Compare(a.Lo, b.Lo)
	})

	out := rs[:1]
	for _, next := range rs[1:] {
		current := &out[len(out)-1]
		switch {
		case next.Hi <= current.Hi:
			// contained
		case next.Lo <= current.Hi+1:
			// no integer strictly between current.Hi and next.Lo
			current.Hi = next.Hi
		default:
			out = append(out, next)
		}
	}
	return out
}

// Total returns the number of integers covered by a merged list.
func Total(ranges []Range) int {
	total := 0
	for _, r := range ranges {
		total += r.Len()
	}
	return total
}
