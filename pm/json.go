package pm

import "encoding/json"

// MarshalJSON emits only the fields a node actually has, except that text
// nodes always carry a marks list and the document root always carries
// content.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NodeText:
		marks := n.Marks
		if marks == nil {
			marks = []*Mark{}
		}
		return json.Marshal(struct {
			Type  NodeType `json:"type"`
			Text  string   `json:"text"`
			Marks []*Mark  `json:"marks"`
		}{n.Type, n.Text, marks})
	case NodeDoc:
		content := n.Content
		if content == nil {
			content = []*Node{}
		}
		return json.Marshal(struct {
			Type    NodeType `json:"type"`
			Content []*Node  `json:"content"`
		}{n.Type, content})
	}
	type plain Node
	return json.Marshal(plain(n))
}

// ToJSON renders the tree as indented JSON.
func (n *Node) ToJSON(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(n)
	}
	return json.MarshalIndent(n, "", indent)
}
