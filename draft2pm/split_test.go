package draft2pm

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/pm"
)

func TestPartitionEmptyText(t *testing.T) {
	block := &draft.Block{
		Text:              "",
		InlineStyleRanges: []draft.InlineStyleRange{{Style: StyleBold, Offset: 0, Length: 3}},
	}
	assert.Empty(t, Partition(block))
}

func TestPartitionNoRanges(t *testing.T) {
	segments := Partition(&draft.Block{Text: "plain"})
	require.Len(t, segments, 1)
	assert.Equal(t, "plain", segments[0].Text)
	assert.Empty(t, segments[0].Ranges)
}

func TestPartitionOverlaps(t *testing.T) {
	block := &draft.Block{
		Text: "abcdefghij",
		InlineStyleRanges: []draft.InlineStyleRange{
			{Style: StyleBold, Offset: 0, Length: 6},
			{Style: StyleItalic, Offset: 3, Length: 5},
		},
		EntityRanges: []draft.EntityRange{{Key: "0", Offset: 3, Length: 3}},
	}
	segments := Partition(block)

	var texts []string
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"abc", "def", "gh", "ij"}, texts)

	assert.Equal(t, []int{0, 3, 6, 8}, []int{segments[0].Start, segments[1].Start, segments[2].Start, segments[3].Start})

	// ranges are listed by offset, then length
	def := segments[1].Ranges
	require.Len(t, def, 3)
	assert.Equal(t, StyleBold, def[0].Style)
	assert.True(t, def[1].IsEntity)
	assert.Equal(t, StyleItalic, def[2].Style)

	assert.Len(t, segments[2].Ranges, 1)
	assert.Empty(t, segments[3].Ranges)
}

func TestPartitionTieBreakByLength(t *testing.T) {
	block := &draft.Block{
		Text: "abcdef",
		InlineStyleRanges: []draft.InlineStyleRange{
			{Style: StyleUnderline, Offset: 0, Length: 4},
			{Style: StyleBold, Offset: 0, Length: 2},
		},
	}
	segments := Partition(block)
	require.Len(t, segments, 3)
	require.Len(t, segments[0].Ranges, 2)
	assert.Equal(t, StyleBold, segments[0].Ranges[0].Style)
	assert.Equal(t, StyleUnderline, segments[0].Ranges[1].Style)
}

func TestPartitionCountsCodePoints(t *testing.T) {
	block := &draft.Block{
		Text:              "héllo wörld 🎉!",
		InlineStyleRanges: []draft.InlineStyleRange{{Style: StyleBold, Offset: 12, Length: 1}},
	}
	segments := Partition(block)
	require.Len(t, segments, 3)
	assert.Equal(t, "héllo wörld ", segments[0].Text)
	assert.Equal(t, "🎉", segments[1].Text)
	assert.Equal(t, "!", segments[2].Text)
}

func TestPartitionClampsRanges(t *testing.T) {
	block := &draft.Block{
		Text: "abc",
		InlineStyleRanges: []draft.InlineStyleRange{
			{Style: StyleBold, Offset: -2, Length: 3},
			{Style: StyleItalic, Offset: 2, Length: 10},
		},
	}
	segments := Partition(block)
	require.Len(t, segments, 3)
	assert.Equal(t, "a", segments[0].Text)
	assert.Equal(t, StyleBold, segments[0].Ranges[0].Style)
	assert.Empty(t, segments[1].Ranges)
	assert.Equal(t, StyleItalic, segments[2].Ranges[0].Style)
}

func TestPartitionIdenticalRangesStayDistinct(t *testing.T) {
	block := &draft.Block{
		Text: "abcd",
		InlineStyleRanges: []draft.InlineStyleRange{
			{Style: StyleBold, Offset: 0, Length: 2},
			{Style: StyleBold, Offset: 0, Length: 2},
		},
	}
	segments := Partition(block)
	require.Len(t, segments, 2)
	assert.Len(t, segments[0].Ranges, 2)
}

// covering returns the ranges of the merged list that cover pos.
func covering(block *draft.Block, pos int) mapset.Set[Range] {
	set := mapset.NewThreadUnsafeSet[Range]()
	for _, r := range mergeRanges(block) {
		if r.Offset <= pos && pos < r.Offset+r.Length {
			set.Add(r)
		}
	}
	return set
}

func TestPartitionProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdé xyz🎉")
	styles := []string{StyleBold, StyleItalic, StyleCode, "bgcolor-red", "UNKNOWN"}

	for n := 0; n < 200; n++ {
		size := rnd.Intn(40)
		text := make([]rune, size)
		for i := range text {
			text[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		block := &draft.Block{Text: string(text)}
		for i := rnd.Intn(6); i > 0 && size > 0; i-- {
			off := rnd.Intn(size)
			block.InlineStyleRanges = append(block.InlineStyleRanges, draft.InlineStyleRange{
				Style: styles[rnd.Intn(len(styles))], Offset: off, Length: 1 + rnd.Intn(size-off),
			})
		}
		for i := rnd.Intn(3); i > 0 && size > 0; i-- {
			off := rnd.Intn(size)
			block.EntityRanges = append(block.EntityRanges, draft.EntityRange{
				Key: draft.KeyOf(i), Offset: off, Length: 1 + rnd.Intn(size-off),
			})
		}

		segments := Partition(block)

		// coverage
		var joined strings.Builder
		for _, s := range segments {
			require.NotEmpty(t, s.Text)
			joined.WriteString(s.Text)
		}
		require.Equal(t, block.Text, joined.String())

		for i, s := range segments {
			active := mapset.NewThreadUnsafeSet(s.Ranges...)
			// correctness: every position in the segment has exactly these ranges
			for pos := s.Start; pos < s.Start+utf8.RuneCountInString(s.Text); pos++ {
				require.True(t, covering(block, pos).Equal(active), "block %q position %d", block.Text, pos)
			}
			// maximality
			if i > 0 {
				prev := mapset.NewThreadUnsafeSet(segments[i-1].Ranges...)
				require.False(t, prev.Equal(active), "adjacent segments %d and %d of %q share ranges", i-1, i, block.Text)
			}
		}
	}
}

func TestSplitTextMarks(t *testing.T) {
	raw := &draft.RawContent{
		Blocks: []draft.Block{{
			Key:  "k",
			Text: "bold link",
			Type: draft.BlockUnstyled,
			InlineStyleRanges: []draft.InlineStyleRange{
				{Style: StyleBold, Offset: 0, Length: 9},
				{Style: "SPARKLE", Offset: 0, Length: 9},
			},
			EntityRanges: []draft.EntityRange{{Key: "0", Offset: 5, Length: 4}},
		}},
		EntityMap: draft.EntityMap{
			"0": {Type: draft.EntityLink, Data: map[string]any{"url": "https://example.com"}},
		},
	}

	res := NewConverter().Convert(raw)
	require.Len(t, res.Doc.Content, 1)
	runs := res.Doc.Content[0].Content
	require.Len(t, runs, 2)

	assert.Equal(t, "bold ", runs[0].Text)
	assert.Equal(t, []*pm.Mark{pm.NewMark(pm.MarkBold, nil)}, runs[0].Marks)

	assert.Equal(t, "link", runs[1].Text)
	require.Len(t, runs[1].Marks, 2)
	assert.Equal(t, pm.MarkBold, runs[1].Marks[0].Type)
	assert.Equal(t, pm.MarkLink, runs[1].Marks[1].Type)
	assert.Equal(t, "https://example.com", runs[1].Marks[1].Attrs["href"])
	assert.NotContains(t, runs[1].Marks[1].Attrs, "target")

	// marks are never shared between runs
	assert.NotSame(t, runs[0].Marks[0], runs[1].Marks[0])

	// the unknown style spans both runs but is reported once
	assert.Equal(t, []draft.InlineStyleRange{{Style: "SPARKLE", Offset: 0, Length: 9}}, res.Unmatched.InlineStyles)
}
