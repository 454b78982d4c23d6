package draft2pm

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/pm"
)

// Range is an inline style range or an entity range of a block, merged into
// a single ordered list for partitioning.
type Range struct {
	Style    string
	Entity   draft.EntityKey
	IsEntity bool
	Offset   int
	Length   int

	// position in the merged list, keeps identical ranges distinct
	seq int
}

// Segment is a piece of block text over which the set of covering ranges is
// constant. Start is the offset of the first code point.
type Segment struct {
	Text   string
	Start  int
	Ranges []Range
}

// mergeRanges returns entity ranges followed by style ranges, ordered by
// offset and then by length.
func mergeRanges(block *draft.Block) []Range {
	merged := make([]Range, 0, len(block.EntityRanges)+len(block.InlineStyleRanges))
	for _, r := range block.EntityRanges {
		merged = append(merged, Range{Entity: r.Key, IsEntity: true, Offset: r.Offset, Length: r.Length})
	}
	for _, r := range block.InlineStyleRanges {
		merged = append(merged, Range{Style: r.Style, Offset: r.Offset, Length: r.Length})
	}
	slices.SortStableFunc(merged, func(a, b Range) int {
		if a.Offset == b.Offset {
			return cmp.Compare(a.Length, b.Length)
		}
		return cmp.Compare(a.Offset, b.Offset)
	})
	for i := range merged {
		merged[i].seq = i
	}
	return merged
}

// Partition splits the block text into maximal segments with a constant set
// of covering ranges. Offsets count code points. The segments cover the text
// exactly once, in order; empty text yields no segments.
func Partition(block *draft.Block) []Segment {
	text := []rune(block.Text)
	if len(text) == 0 {
		return nil
	}

	// stamp every position with the ranges covering it, in merged order
	stamps := make([][]Range, len(text))
	for _, r := range mergeRanges(block) {
		for i := max(r.Offset, 0); i < min(r.Offset+r.Length, len(text)); i++ {
			stamps[i] = append(stamps[i], r)
		}
	}

	var (
		segments []Segment
		start    int
		active   = mapset.NewThreadUnsafeSet(stamps[0]...)
	)
	for i := 1; i < len(text); i++ {
		next := mapset.NewThreadUnsafeSet(stamps[i]...)
		if next.Equal(active) {
			continue
		}
		segments = append(segments, Segment{Text: string(text[start:i]), Start: start, Ranges: stamps[start]})
		start, active = i, next
	}
	return append(segments, Segment{Text: string(text[start:]), Start: start, Ranges: stamps[start]})
}

// splitText turns the partitioned block text into text nodes carrying the
// marks resolved from each segment's ranges. A range that cannot be resolved
// is reported as unmatched once per block, however many segments it spans.
func (run *conversion) splitText(block *draft.Block) []*pm.Node {
	segments := Partition(block)
	if len(segments) == 0 {
		return nil
	}

	failed := make(map[int]bool)
	runs := make([]*pm.Node, 0, len(segments))
	for _, seg := range segments {
		text := pm.NewText(seg.Text)
		for _, r := range seg.Ranges {
			if failed[r.seq] {
				continue
			}
			var mark *pm.Mark
			if r.IsEntity {
				mark = run.entityMark(block, draft.EntityRange{Key: r.Entity, Offset: r.Offset, Length: r.Length})
			} else {
				mark = run.styleMark(block, draft.InlineStyleRange{Style: r.Style, Offset: r.Offset, Length: r.Length})
			}
			if mark == nil {
				failed[r.seq] = true
				continue
			}
			pm.AppendMark(text, mark)
		}
		runs = append(runs, text)
	}
	return runs
}
