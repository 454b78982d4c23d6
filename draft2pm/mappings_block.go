package draft2pm

import (
	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/pm"
)

var headingLevels = map[string]int{
	draft.BlockHeaderOne:   1,
	draft.BlockHeaderTwo:   2,
	draft.BlockHeaderThree: 3,
	draft.BlockHeaderFour:  4,
	draft.BlockHeaderFive:  5,
	draft.BlockHeaderSix:   6,
}

var blockToNodeMapping = map[string]BlockToNodeFunc{
	draft.BlockUnstyled:          mapToParagraph,
	draft.BlockBlockquote:        mapToBlockquote,
	draft.BlockCodeBlock:         mapToCodeBlock,
	draft.BlockAtomic:            mapAtomic,
	draft.BlockHeaderOne:         mapToHeading,
	draft.BlockHeaderTwo:         mapToHeading,
	draft.BlockHeaderThree:       mapToHeading,
	draft.BlockHeaderFour:        mapToHeading,
	draft.BlockHeaderFive:        mapToHeading,
	draft.BlockHeaderSix:         mapToHeading,
	draft.BlockUnorderedListItem: mapToList,
	draft.BlockOrderedListItem:   mapToList,
	draft.BlockTableCell:         mapToTable,
}

// DefaultBlockToNode converts the block under the cursor according to its
// type. Unknown types are not matched.
func DefaultBlockToNode(ctx *BlockContext) (Result, error) {
	if fn, ok := blockToNodeMapping[ctx.Block().Type]; ok {
		return fn(ctx)
	}
	return NotMatched(), nil
}

func mapToParagraph(ctx *BlockContext) (Result, error) {
	block := ctx.Block()
	paragraph := pm.NewNode(pm.NodeParagraph, nil)
	if !block.HasRanges() {
		// plain text, fast path
		if block.Text != "" {
			pm.AppendChild(paragraph, pm.NewText(block.Text))
		}
		return Matched(paragraph), nil
	}
	return Matched(pm.AppendChild(paragraph, ctx.SplitText(block)...)), nil
}

func mapToBlockquote(ctx *BlockContext) (Result, error) {
	blockquote := pm.NewNode(pm.NodeBlockquote, nil)
	return Matched(pm.AppendChild(blockquote, ctx.Paragraph(ctx.Block()))), nil
}

// Code blocks hold raw text, their inline ranges are ignored.
func mapToCodeBlock(ctx *BlockContext) (Result, error) {
	block := ctx.Block()
	var attrs map[string]any
	if lang, ok := block.Data["language"].(string); ok && lang != "" {
		attrs = map[string]any{"language": lang}
	}
	codeBlock := pm.NewNode(pm.NodeCodeBlock, attrs)
	if block.Text != "" {
		pm.AppendChild(codeBlock, pm.NewText(block.Text))
	}
	return Matched(codeBlock), nil
}

// Atomic blocks carry their content in entities which become nodes.
func mapAtomic(ctx *BlockContext) (Result, error) {
	block := ctx.Block()
	if !block.HasRanges() {
		return Matched(pm.NewText(block.Text)), nil
	}
	paragraph := pm.NewNode(pm.NodeParagraph, nil)
	for _, r := range block.EntityRanges {
		pm.AppendChild(paragraph, ctx.EntityToNode(block, r))
	}
	if len(paragraph.Content) == 0 {
		return NotMatched(), nil
	}
	return Matched(paragraph), nil
}

func mapToHeading(ctx *BlockContext) (Result, error) {
	block := ctx.Block()
	level, ok := headingLevels[block.Type]
	if !ok {
		level = 1
	}
	heading := pm.NewNode(pm.NodeHeading, map[string]any{"level": level})
	return Matched(pm.AppendChild(heading, ctx.SplitText(block)...)), nil
}

func newList(blockType string) *pm.Node {
	if blockType == draft.BlockOrderedListItem {
		return pm.NewNode(pm.NodeOrderedList, nil)
	}
	return pm.NewNode(pm.NodeBulletList, nil)
}

// Lists are trees in ProseMirror and flat runs of blocks in Draft. One list
// node is built for the longest run of consecutive items of the same list
// type starting at the cursor.
func mapToList(ctx *BlockContext) (Result, error) {
	block := ctx.Block()
	root := newList(block.Type)
	for {
		item := pm.AppendChild(pm.NewNode(pm.NodeListItem, nil), ctx.Paragraph(block))
		insertListItem(root, block, item)

		next := ctx.Peek()
		if next == nil || next.Type != block.Type {
			break
		}
		block = ctx.Advance()
	}
	return Matched(root), nil
}

// insertListItem places item at block.Depth levels below root, descending
// through the last item's trailing nested list at every level. When a level
// is missing a single nested list is created there and the item goes into
// it, deeper levels are not synthesised.
func insertListItem(root *pm.Node, block *draft.Block, item *pm.Node) {
	list := root
	for depth := 0; depth < block.Depth; {
		last := list.LastChild()
		if last == nil {
			last = pm.NewNode(pm.NodeListItem, nil)
			pm.AppendChild(list, last)
		}
		if nested := last.LastChild(); pm.IsList(nested) {
			list = nested
			depth++
			continue
		}
		nested := newList(block.Type)
		pm.AppendChild(last, nested)
		list = nested
		break
	}
	pm.AppendChild(list, item)
}

// Tables are written by Draft as runs of table-cell blocks. Within a row the
// depth of each cell is one more than the previous one, any other depth
// starts a new row.
func mapToTable(ctx *BlockContext) (Result, error) {
	block := ctx.Block()
	table := pm.NewNode(pm.NodeTable, nil)
	row := pm.NewNode(pm.NodeTableRow, nil)
	pm.AppendChild(table, row)
	pm.AppendChild(row, tableCell(ctx, block))

	for prev := block; ; {
		next := ctx.Peek()
		if next == nil || next.Type != draft.BlockTableCell {
			break
		}
		cell := ctx.Advance()
		if cell.Depth != prev.Depth+1 {
			row = pm.NewNode(pm.NodeTableRow, nil)
			pm.AppendChild(table, row)
		}
		pm.AppendChild(row, tableCell(ctx, cell))
		prev = cell
	}
	return Matched(table), nil
}

func tableCell(ctx *BlockContext, block *draft.Block) *pm.Node {
	return pm.AppendChild(pm.NewNode(pm.NodeTableCell, nil), ctx.Paragraph(block))
}
