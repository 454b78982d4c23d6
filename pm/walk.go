package pm

import "strings"

// WalkFunc is called for every visited node with its parent and depth (the
// root has depth 0). Returning false skips the node's children.
type WalkFunc func(n, parent *Node, depth int) bool

// Walk visits the tree depth first in document order.
func Walk(root *Node, fn WalkFunc) {
	if root == nil {
		return
	}
	visit(root, nil, 0, fn)
}

func visit(n, parent *Node, depth int, fn WalkFunc) {
	if !fn(n, parent, depth) {
		return
	}
	for _, child := range n.Content {
		visit(child, n, depth+1, fn)
	}
}

// PlainText concatenates the text of every text node under root.
func PlainText(root *Node) string {
	var buf strings.Builder
	Walk(root, func(n, _ *Node, _ int) bool {
		if n.Type == NodeText {
			buf.WriteString(n.Text)
		}
		return true
	})
	return buf.String()
}

// ReplaceAll replaces all occurrences of old with new in every text node
// under root.
func ReplaceAll(root *Node, old, new string) {
	Walk(root, func(n, _ *Node, _ int) bool {
		if n.Type == NodeText {
			n.Text = strings.ReplaceAll(n.Text, old, new)
		}
		return true
	})
}

// Count returns how many nodes of each type the tree holds.
func Count(root *Node) map[NodeType]int {
	counts := make(map[NodeType]int)
	Walk(root, func(n, _ *Node, _ int) bool {
		counts[n.Type]++
		return true
	})
	return counts
}
