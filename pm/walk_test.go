package pm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTree() *Node {
	list := AppendChild(NewNode(NodeBulletList, nil),
		AppendChild(NewNode(NodeListItem, nil),
			AppendChild(NewNode(NodeParagraph, nil), NewText("Prefix: one")),
		),
		AppendChild(NewNode(NodeListItem, nil),
			AppendChild(NewNode(NodeParagraph, nil), NewText("Prefix: two")),
		),
	)
	return AppendChild(NewDocument(), list)
}

func TestWalkDepths(t *testing.T) {
	var types []NodeType
	var depths []int
	Walk(sampleTree(), func(n, _ *Node, depth int) bool {
		types = append(types, n.Type)
		depths = append(depths, depth)
		return true
	})

	assert.Equal(t, []NodeType{
		NodeDoc, NodeBulletList,
		NodeListItem, NodeParagraph, NodeText,
		NodeListItem, NodeParagraph, NodeText,
	}, types)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 2, 3, 4}, depths)
}

func TestWalkSkipsChildren(t *testing.T) {
	visited := 0
	Walk(sampleTree(), func(n, _ *Node, _ int) bool {
		visited++
		return n.Type != NodeBulletList
	})
	assert.Equal(t, 2, visited)
}

func TestReplaceAll(t *testing.T) {
	doc := sampleTree()
	ReplaceAll(doc, "Prefix:", "Replaced:")
	assert.Equal(t, "Replaced: oneReplaced: two", PlainText(doc))
}

func TestCount(t *testing.T) {
	counts := Count(sampleTree())
	assert.Equal(t, 1, counts[NodeBulletList])
	assert.Equal(t, 2, counts[NodeListItem])
	assert.Equal(t, 2, counts[NodeText])
}
