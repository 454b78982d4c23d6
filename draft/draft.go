// Package draft describes Draft.js raw content: a flat list of blocks whose
// inline styles and entity references are offset ranges over the block text.
package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Block types known to the default mappings.
const (
	BlockUnstyled          = "unstyled"
	BlockHeaderOne         = "header-one"
	BlockHeaderTwo         = "header-two"
	BlockHeaderThree       = "header-three"
	BlockHeaderFour        = "header-four"
	BlockHeaderFive        = "header-five"
	BlockHeaderSix         = "header-six"
	BlockUnorderedListItem = "unordered-list-item"
	BlockOrderedListItem   = "ordered-list-item"
	BlockBlockquote        = "blockquote"
	BlockCodeBlock         = "code-block"
	BlockAtomic            = "atomic"
	BlockTableCell         = "table-cell"
)

// Entity types known to the default mappings.
const (
	EntityLink           = "LINK"
	EntityImage          = "IMAGE"
	EntityHorizontalRule = "HORIZONTAL_RULE"
)

// EntityKey identifies an entity in the entity map. Draft writes map keys as
// strings and range keys as numbers, both decode to the same key.
type EntityKey string

// UnmarshalJSON accepts both a JSON number and a JSON string.
func (k *EntityKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = EntityKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity key must be a number or a string: %w", err)
	}
	*k = EntityKey(n.String())
	return nil
}

// KeyOf builds an entity key from an integer index.
func KeyOf(i int) EntityKey { return EntityKey(strconv.Itoa(i)) }

// RawContent is the serialized state of a Draft.js editor.
type RawContent struct {
	Blocks    []Block   `json:"blocks"`
	EntityMap EntityMap `json:"entityMap"`
}

// EntityMap maps entity keys to entities.
type EntityMap map[EntityKey]*Entity

// Block is one paragraph-level unit of content.
type Block struct {
	Key               string             `json:"key"`
	Text              string             `json:"text"`
	Type              string             `json:"type"`
	Depth             int                `json:"depth"`
	InlineStyleRanges []InlineStyleRange `json:"inlineStyleRanges"`
	EntityRanges      []EntityRange      `json:"entityRanges"`
	Data              map[string]any     `json:"data,omitempty"`
}

// InlineStyleRange applies a named style to a span of block text.
type InlineStyleRange struct {
	Style  string `json:"style"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// EntityRange attaches an entity to a span of block text.
type EntityRange struct {
	Key    EntityKey `json:"key"`
	Offset int       `json:"offset"`
	Length int       `json:"length"`
}

// Entity is out-of-line rich content referenced from entity ranges.
type Entity struct {
	Type       string         `json:"type"`
	Mutability string         `json:"mutability"`
	Data       map[string]any `json:"data"`
}

// HasRanges reports whether the block carries any style or entity ranges.
func (b *Block) HasRanges() bool {
	return len(b.InlineStyleRanges) > 0 || len(b.EntityRanges) > 0
}

// IsListItem reports whether the block is an ordered or unordered list item.
func (b *Block) IsListItem() bool {
	return b != nil && (b.Type == BlockUnorderedListItem || b.Type == BlockOrderedListItem)
}

// Lookup returns the entity for key, or nil when the map does not have it.
func (m EntityMap) Lookup(key EntityKey) *Entity {
	if m == nil {
		return nil
	}
	return m[key]
}

// String returns the data value under name when it is a string.
func (e *Entity) String(name string) (string, bool) {
	if e == nil || e.Data == nil {
		return "", false
	}
	s, ok := e.Data[name].(string)
	return s, ok
}
