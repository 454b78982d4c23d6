package draft2pm

import "github.com/jorres/draft2pm/draft"

// Cursor walks the flat block list. Block resolvers that merge several
// blocks into one node move it forward themselves and leave it on the last
// block they consumed.
type Cursor struct {
	blocks []draft.Block
	index  int
}

// NewCursor returns a cursor positioned on the first block.
func NewCursor(blocks []draft.Block) *Cursor {
	return &Cursor{blocks: blocks}
}

// Index returns the current position.
func (c *Cursor) Index() int { return c.index }

// SetIndex moves the cursor to i.
func (c *Cursor) SetIndex(i int) { c.index = i }

// Len returns the number of blocks.
func (c *Cursor) Len() int { return len(c.blocks) }

// Blocks returns every block being converted.
func (c *Cursor) Blocks() []draft.Block { return c.blocks }

// Done reports whether the cursor has moved past the last block.
func (c *Cursor) Done() bool { return c.index >= len(c.blocks) }

// Block returns the current block or nil.
func (c *Cursor) Block() *draft.Block { return c.at(c.index) }

// Peek returns the next block without moving, or nil at the end.
func (c *Cursor) Peek() *draft.Block { return c.at(c.index + 1) }

// PeekPrev returns the previous block without moving, or nil at the start.
func (c *Cursor) PeekPrev() *draft.Block { return c.at(c.index - 1) }

// Advance moves one block forward and returns the new current block.
func (c *Cursor) Advance() *draft.Block {
	if c.index < len(c.blocks) {
		c.index++
	}
	return c.Block()
}

// Retreat moves one block back and returns the new current block.
func (c *Cursor) Retreat() *draft.Block {
	if c.index >= 0 {
		c.index--
	}
	return c.Block()
}

func (c *Cursor) at(i int) *draft.Block {
	if i < 0 || i >= len(c.blocks) {
		return nil
	}
	return &c.blocks[i]
}
