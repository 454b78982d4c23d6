// Package pm is a ProseMirror (Tiptap) JSON document model: typed nodes with
// children and attached marks.
package pm

import (
	"maps"
	"reflect"
	"slices"
)

// NodeType is a ProseMirror node type. The set is open, the constants below
// are the types the default mappings produce.
type NodeType string

// Node types.
const (
	NodeDoc            = NodeType("doc")
	NodeText           = NodeType("text")
	NodeParagraph      = NodeType("paragraph")
	NodeHeading        = NodeType("heading")
	NodeBlockquote     = NodeType("blockquote")
	NodeCodeBlock      = NodeType("codeBlock")
	NodeBulletList     = NodeType("bulletList")
	NodeOrderedList    = NodeType("orderedList")
	NodeListItem       = NodeType("listItem")
	NodeHorizontalRule = NodeType("horizontalRule")
	NodeHardBreak      = NodeType("hardBreak")
	NodeImage          = NodeType("image")
	NodeTable          = NodeType("table")
	NodeTableRow       = NodeType("tableRow")
	NodeTableCell      = NodeType("tableCell")
)

// MarkType is a ProseMirror mark type.
type MarkType string

// Mark types.
const (
	MarkBold        = MarkType("bold")
	MarkCode        = MarkType("code")
	MarkItalic      = MarkType("italic")
	MarkStrike      = MarkType("strike")
	MarkUnderline   = MarkType("underline")
	MarkSubscript   = MarkType("subscript")
	MarkSuperscript = MarkType("superscript")
	MarkHighlight   = MarkType("highlight")
	MarkLink        = MarkType("link")
	MarkTextStyle   = MarkType("textStyle")
)

// Node is a single document node. Text is only meaningful for text nodes,
// which never have content.
type Node struct {
	Type    NodeType       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Marks   []*Mark        `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// Mark decorates a text node.
type Mark struct {
	Type  MarkType       `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewNode creates a node of the given type. A nil or empty attrs map leaves
// the node without attributes.
func NewNode(t NodeType, attrs map[string]any) *Node {
	n := &Node{Type: t}
	if len(attrs) > 0 {
		n.Attrs = attrs
	}
	return n
}

// NewMark creates a mark of the given type.
func NewMark(t MarkType, attrs map[string]any) *Mark {
	m := &Mark{Type: t}
	if len(attrs) > 0 {
		m.Attrs = attrs
	}
	return m
}

// NewText creates a text node carrying the given marks.
func NewText(text string, marks ...*Mark) *Node {
	n := &Node{Type: NodeText, Text: text, Marks: []*Mark{}}
	return AppendMark(n, marks...)
}

// NewDocument creates an empty document root.
func NewDocument() *Node {
	return &Node{Type: NodeDoc, Content: []*Node{}}
}

// AppendChild appends children to parent in order and returns parent. Nil
// children are skipped, so the result of a conditional constructor can be
// passed directly.
func AppendChild(parent *Node, children ...*Node) *Node {
	children = slices.DeleteFunc(slices.Clone(children), func(c *Node) bool { return c == nil })
	if len(children) == 0 {
		return parent
	}
	if parent == nil {
		panic("pm: cannot append a child to a nil parent")
	}
	if parent.Type == NodeText {
		panic("pm: text nodes cannot have content")
	}
	if parent.Content == nil {
		parent.Content = make([]*Node, 0, len(children))
	}
	parent.Content = append(parent.Content, children...)
	return parent
}

// AppendMark appends marks to node in order and returns node. Nil marks are
// dropped.
func AppendMark(node *Node, marks ...*Mark) *Node {
	marks = slices.DeleteFunc(slices.Clone(marks), func(m *Mark) bool { return m == nil })
	if len(marks) == 0 {
		return node
	}
	if node == nil {
		panic("pm: cannot append a mark to a nil node")
	}
	if node.Marks == nil {
		node.Marks = make([]*Mark, 0, len(marks))
	}
	node.Marks = append(node.Marks, marks...)
	return node
}

// InsertChild inserts child at index, appending when index is past the end.
func InsertChild(parent *Node, index int, child *Node) *Node {
	if child == nil {
		return parent
	}
	if index < 0 || parent == nil || index >= len(parent.Content) {
		return AppendChild(parent, child)
	}
	if parent.Type == NodeText {
		panic("pm: text nodes cannot have content")
	}
	parent.Content = slices.Insert(parent.Content, index, child)
	return parent
}

// RemoveChild removes the child at index. Out of range indexes are ignored.
func RemoveChild(parent *Node, index int) *Node {
	if parent != nil && index >= 0 && index < len(parent.Content) {
		parent.Content = slices.Delete(parent.Content, index, index+1)
	}
	return parent
}

// SetAttrs merges attrs into the node attributes.
func SetAttrs(n *Node, attrs map[string]any) *Node {
	if len(attrs) == 0 {
		return n
	}
	mustHaveAttrs(n)
	if n.Attrs == nil {
		n.Attrs = make(map[string]any, len(attrs))
	}
	maps.Copy(n.Attrs, attrs)
	return n
}

// SetAttr sets a single attribute.
func SetAttr(n *Node, name string, value any) *Node {
	return SetAttrs(n, map[string]any{name: value})
}

// RemoveAttr deletes a single attribute, dropping the map once it is empty.
func RemoveAttr(n *Node, name string) *Node {
	mustHaveAttrs(n)
	delete(n.Attrs, name)
	if len(n.Attrs) == 0 {
		n.Attrs = nil
	}
	return n
}

func mustHaveAttrs(n *Node) {
	switch {
	case n == nil:
		panic("pm: cannot set attributes on a nil node")
	case n.Type == NodeText:
		panic("pm: text nodes cannot have attributes")
	case n.Type == NodeDoc:
		panic("pm: document root cannot have attributes")
	}
}

// Clone returns a copy of the mark with its own attribute map.
func (m *Mark) Clone() *Mark {
	if m == nil {
		return nil
	}
	return &Mark{Type: m.Type, Attrs: maps.Clone(m.Attrs)}
}

// Equal reports whether two marks have the same type and attributes.
func (m *Mark) Equal(o *Mark) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Type != o.Type || len(m.Attrs) != len(o.Attrs) {
		return false
	}
	return len(m.Attrs) == 0 || reflect.DeepEqual(m.Attrs, o.Attrs)
}

// HasMark reports whether the node carries a mark of the given type.
func (n *Node) HasMark(t MarkType) bool {
	return slices.ContainsFunc(n.Marks, func(m *Mark) bool { return m.Type == t })
}

// IsText reports whether n is a text node.
func IsText(n *Node) bool { return n != nil && n.Type == NodeText }

// IsDocument reports whether n is a document root.
func IsDocument(n *Node) bool { return n != nil && n.Type == NodeDoc }

// IsList reports whether n is a bullet or ordered list.
func IsList(n *Node) bool {
	return n != nil && (n.Type == NodeBulletList || n.Type == NodeOrderedList)
}

// LastChild returns the last child of n or nil.
func (n *Node) LastChild() *Node {
	if n == nil || len(n.Content) == 0 {
		return nil
	}
	return n.Content[len(n.Content)-1]
}
